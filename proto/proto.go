// Package proto defines the commands a client sends to the room server and
// the events it receives back.
//
// Both travel as adjacently tagged JSON:
//
//	{"command":"MuteRoom","data":{"audio":true,"video":false}}
package proto

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	ErrMalformed   = errors.New("proto: malformed message")
	ErrUnknownKind = errors.New("proto: unknown message kind")
)

type CommandKind string

const (
	MuteRoom   CommandKind = "MuteRoom"
	UnmuteRoom CommandKind = "UnmuteRoom"
)

func (k CommandKind) valid() bool {
	return k == MuteRoom || k == UnmuteRoom
}

type EventKind string

const (
	RoomMuted   EventKind = "RoomMuted"
	RoomUnmuted EventKind = "RoomUnmuted"
)

func (k EventKind) valid() bool {
	return k == RoomMuted || k == RoomUnmuted
}

// Command asks the server to mute or unmute the selected track kinds.
type Command struct {
	Kind  CommandKind
	Audio bool
	Video bool
}

// Reply is the event the server answers cmd with.
func (c Command) Reply() Event {
	e := Event{Audio: c.Audio, Video: c.Video}
	switch c.Kind {
	case MuteRoom:
		e.Kind = RoomMuted
	case UnmuteRoom:
		e.Kind = RoomUnmuted
	}
	return e
}

func (c Command) String() string {
	return fmt.Sprintf("%s{audio:%t video:%t}", c.Kind, c.Audio, c.Video)
}

func (c Command) MarshalJSON() ([]byte, error) {
	if !c.Kind.valid() {
		return nil, fmt.Errorf("%w: command %q", ErrUnknownKind, c.Kind)
	}
	return encode(string(c.Kind), c.Audio, c.Video)
}

func (c *Command) UnmarshalJSON(b []byte) error {
	tag, audio, video, err := decode(b)
	if err != nil {
		return err
	}
	kind := CommandKind(tag)
	if !kind.valid() {
		return fmt.Errorf("%w: command %q", ErrUnknownKind, tag)
	}
	*c = Command{Kind: kind, Audio: audio, Video: video}
	return nil
}

// Event notifies the client that the selected track kinds changed state.
type Event struct {
	Kind  EventKind
	Audio bool
	Video bool
}

func (e Event) String() string {
	return fmt.Sprintf("%s{audio:%t video:%t}", e.Kind, e.Audio, e.Video)
}

func (e Event) MarshalJSON() ([]byte, error) {
	if !e.Kind.valid() {
		return nil, fmt.Errorf("%w: event %q", ErrUnknownKind, e.Kind)
	}
	return encode(string(e.Kind), e.Audio, e.Video)
}

func (e *Event) UnmarshalJSON(b []byte) error {
	tag, audio, video, err := decode(b)
	if err != nil {
		return err
	}
	kind := EventKind(tag)
	if !kind.valid() {
		return fmt.Errorf("%w: event %q", ErrUnknownKind, tag)
	}
	*e = Event{Kind: kind, Audio: audio, Video: video}
	return nil
}

func encode(tag string, audio, video bool) (b []byte, err error) {
	b = []byte(`{}`)
	if b, err = sjson.SetBytes(b, "command", tag); err != nil {
		return nil, err
	}
	if b, err = sjson.SetBytes(b, "data.audio", audio); err != nil {
		return nil, err
	}
	return sjson.SetBytes(b, "data.video", video)
}

func decode(b []byte) (tag string, audio, video bool, err error) {
	if !gjson.ValidBytes(b) {
		return "", false, false, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	fields := gjson.GetManyBytes(b, "command", "data.audio", "data.video")
	if fields[0].Type != gjson.String {
		return "", false, false, fmt.Errorf("%w: missing command tag", ErrMalformed)
	}
	for i, name := range []string{"audio", "video"} {
		if !fields[i+1].IsBool() {
			return "", false, false, fmt.Errorf("%w: data.%s must be a boolean", ErrMalformed, name)
		}
	}
	return fields[0].String(), fields[1].Bool(), fields[2].Bool(), nil
}
