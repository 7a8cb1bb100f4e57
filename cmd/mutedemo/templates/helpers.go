package templates

import (
	"strings"
	"time"

	"github.com/evdokimovs/mute-unmute-poc/room"
)

// Step is one timed room operation in a report.
type Step struct {
	Name string
	Took time.Duration
	Err  error
}

// Selection names the track kinds picked by an audio/video flag pair.
func Selection(audio, video bool) string {
	var sb strings.Builder
	for _, k := range []struct {
		on   bool
		kind room.TrackKind
	}{{audio, room.Audio}, {video, room.Video}} {
		if !k.on {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("+")
		}
		sb.WriteString(k.kind.String())
	}
	if sb.Len() == 0 {
		return "none"
	}
	return sb.String()
}

func outcome(s Step) string {
	took := s.Took.Round(time.Millisecond).String()
	if s.Err != nil {
		return "failed after " + took + ": " + s.Err.Error()
	}
	return "ok in " + took
}

func onOff(muted bool) string {
	if muted {
		return "muted"
	}
	return "live"
}

func mutedCount(tracks []room.TrackState) int {
	n := 0
	for _, t := range tracks {
		if t.Muted {
			n++
		}
	}
	return n
}
