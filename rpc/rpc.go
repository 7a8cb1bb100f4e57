// Package rpc is the command/event channel between a room and its server.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/evdokimovs/mute-unmute-poc/proto"
	"github.com/evdokimovs/mute-unmute-poc/reactive"
	"github.com/evdokimovs/mute-unmute-poc/sched"
)

var ErrClosed = errors.New("rpc: client closed")

// Client sends commands and streams events over a persistent connection.
type Client interface {
	// Send is fire and forget: no acknowledgment, errors are only logged.
	Send(cmd proto.Command)
	// OnMessage returns a new subscription to every later event, in arrival
	// order. The stream ends when the client is closed.
	OnMessage() *reactive.Stream[proto.Event]
	Close() error
}

// Loopback is an in-process Client that plays the server too. Every command
// goes through its JSON wire form and is answered with Command.Reply after
// the configured latency. Replies are delivered in command order.
type Loopback struct {
	mu      sync.Mutex
	subs    reactive.StreamSubscribers[proto.Event]
	sent    []proto.Command
	pending []queued
	closed  bool
	latency time.Duration
	silent  bool
	log     *slog.Logger

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// queued is a command awaiting its reply.
type queued struct {
	due time.Time
	cmd proto.Command
}

type Option func(*Loopback)

// WithLatency delays every reply by d.
func WithLatency(d time.Duration) Option {
	return func(l *Loopback) { l.latency = d }
}

// WithSilence makes the server record commands without ever replying.
func WithSilence() Option {
	return func(l *Loopback) { l.silent = true }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loopback) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoopback starts the server side. Close stops it.
func NewLoopback(opts ...Option) *Loopback {
	l := &Loopback{log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	l.wake = make(chan struct{}, 1)
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.wg.Add(1)
	go l.serve()
	return l
}

func (l *Loopback) Send(cmd proto.Command) {
	wire, err := json.Marshal(cmd)
	if err != nil {
		l.log.Error("encode command", slog.String("command", cmd.String()), slog.Any("error", err))
		return
	}

	var received proto.Command
	if err := json.Unmarshal(wire, &received); err != nil {
		l.log.Error("server rejected command", slog.String("wire", string(wire)), slog.Any("error", err))
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Warn("send dropped", slog.String("command", cmd.String()), slog.Any("error", ErrClosed))
		return
	}
	l.sent = append(l.sent, received)
	if l.silent {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, queued{due: time.Now().Add(l.latency), cmd: received})
	l.mu.Unlock()

	l.log.Debug("command sent", slog.String("wire", string(wire)))
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// serve answers queued commands one at a time. Every command waits the same
// latency, so due times never decrease and FIFO order is reply order.
func (l *Loopback) serve() {
	defer l.wg.Done()
	for {
		l.mu.Lock()
		var (
			next queued
			ok   = len(l.pending) > 0
		)
		if ok {
			next = l.pending[0]
			l.pending = l.pending[1:]
		}
		l.mu.Unlock()

		if !ok {
			select {
			case <-l.wake:
				continue
			case <-l.ctx.Done():
				return
			}
		}
		if err := sched.After(l.ctx, time.Until(next.due)); err != nil {
			return
		}
		l.reply(next.cmd)
	}
}

func (l *Loopback) reply(cmd proto.Command) {
	wire, err := json.Marshal(cmd.Reply())
	if err != nil {
		l.log.Error("encode event", slog.Any("error", err))
		return
	}
	var evt proto.Event
	if err := json.Unmarshal(wire, &evt); err != nil {
		l.log.Error("client rejected event", slog.String("wire", string(wire)), slog.Any("error", err))
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.log.Debug("event received", slog.String("wire", string(wire)))
	l.subs.OnModify(evt)
}

func (l *Loopback) OnMessage() *reactive.Stream[proto.Event] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		var ended reactive.StreamSubscribers[proto.Event]
		s := ended.Subscribe()
		ended.Drop()
		return s
	}
	return l.subs.Subscribe()
}

// Sent returns every command the server has received, in order.
func (l *Loopback) Sent() []proto.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]proto.Command(nil), l.sent...)
}

// Close ends every event stream and abandons replies still in flight.
func (l *Loopback) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.pending = nil
	l.cancel()
	l.subs.Drop()
	l.mu.Unlock()

	l.wg.Wait()
	return nil
}
