// Package audiodriver adapts the teacher's beep/mp3/speaker-based
// ManageAudio routine into the drivers.Audio contract: decode a beep
// sample once, then replay it through the speaker every time Beep is
// called while the sound timer is non-zero.
package audiodriver

import (
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

// Speaker beeps by replaying a decoded mp3 sample through the system
// audio device, exactly as the teacher's chip8.ManageAudio did.
type Speaker struct {
	frequencyHz float64
	streamer    beep.StreamSeeker
	format      beep.Format
}

// NewSpeaker opens and decodes the mp3 sample at path and initializes
// the speaker at its native sample rate. frequencyHz is the rate the
// orchestrator checks the sound timer at (typically matched to the
// CPU's 60Hz timer tick).
func NewSpeaker(path string, frequencyHz float64) (*Speaker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening beep sample")
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decoding beep sample")
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(bufferDuration)); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}
	return &Speaker{frequencyHz: frequencyHz, streamer: streamer, format: format}, nil
}

// bufferDuration matches the teacher's time.Second/10 speaker buffer.
const bufferDuration = time.Second / 10

// Frequency implements drivers.Audio.
func (s *Speaker) Frequency() float64 { return s.frequencyHz }

// Beep rewinds the decoded sample to its start and plays it once.
func (s *Speaker) Beep() error {
	if err := s.streamer.Seek(0); err != nil {
		return errors.Wrap(err, "rewinding beep sample")
	}
	speaker.Play(s.streamer)
	return nil
}

// Null is a no-op audio driver, used in windowed runs when the beep
// sample cannot be loaded. Headless runs have no audio driver at all.
type Null struct {
	FrequencyHz float64
}

// Frequency implements drivers.Audio.
func (n Null) Frequency() float64 { return n.FrequencyHz }

// Beep implements drivers.Audio as a no-op.
func (n Null) Beep() error { return nil }
