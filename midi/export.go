package midi

import (
	"fmt"
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"grand-staff/notation"
)

const ticksPerBeat = 960

// WriteChord writes pitches as one chord held for beats quarter notes, as a
// single-track standard MIDI file.
func WriteChord(w io.Writer, pitches []notation.Pitch, channel uint8, beats int) error {
	if beats < 1 {
		beats = 1
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(120))
	for _, p := range pitches {
		track.Add(0, gomidi.NoteOn(channel, uint8(p), 100))
	}
	for i, p := range pitches {
		var delta uint32
		if i == 0 {
			delta = uint32(beats * ticksPerBeat)
		}
		track.Add(delta, gomidi.NoteOff(channel, uint8(p)))
	}
	track.Close(0)

	if err := sm.Add(track); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}
