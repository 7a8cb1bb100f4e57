package room

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/evdokimovs/mute-unmute-poc/reactive"
)

type TrackKind uint8

const (
	Audio TrackKind = iota
	Video
)

func (k TrackKind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Video:
		return "video"
	default:
		panic("invalid type")
	}
}

// kinds selects track kinds by the audio/video flags of a command or event.
func kinds(audio, video bool) mapset.Set[TrackKind] {
	set := mapset.NewThreadUnsafeSet[TrackKind]()
	if audio {
		set.Add(Audio)
	}
	if video {
		set.Add(Video)
	}
	return set
}

// Track is a local media sender. Its muted flag is the only state the room
// drives.
type Track struct {
	kind  TrackKind
	muted *reactive.UniversalField[bool]
}

func newTrack(kind TrackKind) *Track {
	return &Track{kind: kind, muted: reactive.NewUniversalField(false)}
}

func (t *Track) Kind() TrackKind { return t.kind }

// PeerID identifies a peer by the hash of its name.
type PeerID uint64

func NewPeerID(name string) PeerID {
	return PeerID(xxhash.Sum64String(name))
}

func (id PeerID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

type Peer struct {
	ID     PeerID
	Name   string
	Tracks []*Track
}

func newPeer(name string) *Peer {
	return &Peer{
		ID:     NewPeerID(name),
		Name:   name,
		Tracks: []*Track{newTrack(Audio), newTrack(Video)},
	}
}

// TrackState is a point-in-time view of one track.
type TrackState struct {
	PeerID PeerID
	Peer   string
	Kind   TrackKind
	Muted  bool
}
