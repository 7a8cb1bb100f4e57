// Package room coordinates mute state across the local tracks of every peer
// in a call. All track cells live on a single sched.Loop; callers on other
// goroutines reach them through Do and wait on the returned subscriptions.
package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/evdokimovs/mute-unmute-poc/proto"
	"github.com/evdokimovs/mute-unmute-poc/reactive"
	"github.com/evdokimovs/mute-unmute-poc/rpc"
	"github.com/evdokimovs/mute-unmute-poc/sched"
)

var (
	ErrTimeout    = errors.New("room: timed out waiting for server")
	ErrPeerExists = errors.New("room: peer already exists")
	ErrClosed     = errors.New("room: closed")
)

const DefaultTimeout = 3500 * time.Millisecond

type Room struct {
	id      uuid.UUID
	loop    *sched.Loop
	client  rpc.Client
	timeout time.Duration
	log     *slog.Logger

	// owned by loop
	peers  map[PeerID]*Peer
	order  []PeerID
	closed bool
}

type Option func(*Room)

// WithTimeout bounds how long Mute and Unmute wait for the server. A
// non-positive d waits until the caller's context ends.
func WithTimeout(d time.Duration) Option {
	return func(r *Room) { r.timeout = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Room) {
		if log != nil {
			r.log = log
		}
	}
}

func New(client rpc.Client, opts ...Option) *Room {
	r := &Room{
		id:      uuid.New(),
		client:  client,
		timeout: DefaultTimeout,
		log:     slog.Default(),
		peers:   map[PeerID]*Peer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(slog.String("room", r.id.String()))
	r.loop = sched.NewLoop(r.log)
	return r
}

func (r *Room) ID() uuid.UUID { return r.id }

// Run drives the room loop and feeds server events into it until ctx ends.
func (r *Room) Run(ctx context.Context) error {
	events := r.client.OnMessage()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.loop.Run(ctx)
	})
	g.Go(func() error {
		defer events.Close()
		for evt := range events.All(ctx) {
			r.log.Debug("event", slog.String("event", evt.String()))
			r.loop.Post(func() { r.handleEvent(evt) })
		}
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// AddPeer adds a peer with one audio and one video track, both unmuted.
func (r *Room) AddPeer(ctx context.Context, name string) (PeerID, error) {
	var (
		id  PeerID
		err error
	)
	if doErr := r.loop.Do(ctx, func() {
		if r.closed {
			err = ErrClosed
			return
		}
		p := newPeer(name)
		if _, ok := r.peers[p.ID]; ok {
			err = fmt.Errorf("%w: %s", ErrPeerExists, name)
			return
		}
		r.peers[p.ID] = p
		r.order = append(r.order, p.ID)
		id = p.ID
	}); doErr != nil {
		return 0, doErr
	}
	return id, err
}

// HandleEvent applies a server event to the room as if it had arrived over
// the client.
func (r *Room) HandleEvent(ctx context.Context, evt proto.Event) error {
	return r.loop.Do(ctx, func() { r.handleEvent(evt) })
}

func (r *Room) handleEvent(evt proto.Event) {
	if r.closed {
		return
	}
	var muted bool
	switch evt.Kind {
	case proto.RoomMuted:
		muted = true
	case proto.RoomUnmuted:
		muted = false
	default:
		panic("invalid type")
	}
	selected := kinds(evt.Audio, evt.Video)
	r.eachTrack(func(_ *Peer, t *Track) {
		if selected.Contains(t.kind) {
			t.muted.Set(muted)
		}
	})
}

func (r *Room) eachTrack(fn func(p *Peer, t *Track)) {
	for _, id := range r.order {
		p := r.peers[id]
		for _, t := range p.Tracks {
			fn(p, t)
		}
	}
}

// Mute asks the server to mute the selected track kinds and waits until every
// selected track reports muted.
func (r *Room) Mute(ctx context.Context, audio, video bool) error {
	return r.toggle(ctx, proto.Command{Kind: proto.MuteRoom, Audio: audio, Video: video}, true)
}

// Unmute is the inverse of Mute. Tracks that are already unmuted resolve
// without a round trip.
func (r *Room) Unmute(ctx context.Context, audio, video bool) error {
	return r.toggle(ctx, proto.Command{Kind: proto.UnmuteRoom, Audio: audio, Video: video}, false)
}

func (r *Room) toggle(ctx context.Context, cmd proto.Command, target bool) error {
	var waiters []*reactive.Waiter
	if err := r.loop.Do(ctx, func() {
		selected := kinds(cmd.Audio, cmd.Video)
		r.eachTrack(func(_ *Peer, t *Track) {
			if selected.Contains(t.kind) {
				waiters = append(waiters, t.muted.WhenEq(target))
			}
		})
		for _, w := range waiters {
			select {
			case <-w.Done():
				continue
			default:
			}
			r.client.Send(cmd)
			return
		}
	}); err != nil {
		return err
	}

	wctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if r.timeout > 0 {
		go func() {
			if sched.After(wctx, r.timeout) == nil {
				cancel(ErrTimeout)
			}
		}()
	}

	g, gctx := errgroup.WithContext(wctx)
	for _, w := range waiters {
		g.Go(func() error { return w.Wait(gctx) })
	}
	err := g.Wait()
	if err == nil {
		return nil
	}
	for _, w := range waiters {
		w.Cancel()
	}
	if errors.Is(err, context.Canceled) && errors.Is(context.Cause(wctx), ErrTimeout) {
		r.log.Warn("no reply from server", slog.String("command", cmd.String()), slog.Duration("timeout", r.timeout))
		return ErrTimeout
	}
	return fmt.Errorf("room: %s: %w", cmd.Kind, err)
}

// Snapshot returns the state of every track, peers in insertion order.
func (r *Room) Snapshot(ctx context.Context) ([]TrackState, error) {
	var states []TrackState
	if err := r.loop.Do(ctx, func() {
		r.eachTrack(func(p *Peer, t *Track) {
			states = append(states, TrackState{PeerID: p.ID, Peer: p.Name, Kind: t.kind, Muted: t.muted.Read()})
		})
	}); err != nil {
		return nil, err
	}
	return states, nil
}

// Watch merges every track's changes into one stream. Order is preserved per
// track only. The stream ends when ctx is done or the room is closed.
func (r *Room) Watch(ctx context.Context) (*reactive.Stream[TrackState], error) {
	type source struct {
		state   TrackState
		changes *reactive.Stream[bool]
	}
	var sources []source
	if err := r.loop.Do(ctx, func() {
		r.eachTrack(func(p *Peer, t *Track) {
			sources = append(sources, source{
				state:   TrackState{PeerID: p.ID, Peer: p.Name, Kind: t.kind},
				changes: t.muted.Subscribe(),
			})
		})
	}); err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out reactive.StreamSubscribers[TrackState]
		wg  sync.WaitGroup
	)
	merged := out.Subscribe()
	for _, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer src.changes.Close()
			for muted := range src.changes.All(ctx) {
				st := src.state
				st.Muted = muted
				mu.Lock()
				out.OnModify(st)
				mu.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		mu.Lock()
		out.Drop()
		mu.Unlock()
	}()
	return merged, nil
}

// Close tears down every track. Outstanding Mute and Unmute calls fail with
// reactive.ErrDropped and Watch streams end. The client is left open.
func (r *Room) Close(ctx context.Context) error {
	return r.loop.Do(ctx, func() {
		if r.closed {
			return
		}
		r.closed = true
		r.eachTrack(func(_ *Peer, t *Track) {
			t.muted.Close()
		})
	})
}
