// Package portaudiobackend adapts github.com/gordonklaus/portaudio to
// internal/backend's Audio interface: a blocking Write loop feeding a
// PortAudio output stream, driven by a small procedural-tone mixer.
package portaudiobackend

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/rtype/arcade/internal/backend"
)

const (
	sampleRate      = 44100
	framesPerBuffer = 512
	maxVoices       = 8
	clipDuration    = 0.25 // seconds; every clip is a short procedural tone
)

var descriptor = backend.Descriptor{Name: "portaudio", Version: "1"}

// clipFrequencies maps a clip id to the tone frequency it plays.
// Asset loading is out of scope, so effects are procedural tones
// distinguished by pitch rather than sampled audio.
var clipFrequencies = [...]float64{220, 330, 440, 550, 660, 770, 880, 990}

type voice struct {
	freq   float64
	volume float32
	phase  float64
	frame  int
	total  int
}

// Audio is the PortAudio-backed Audio implementation.
type Audio struct {
	mu     sync.Mutex
	voices []voice
	paused atomic.Bool
	closed atomic.Bool

	stream *portaudio.Stream
}

// New returns an unstarted PortAudio Audio backend.
func New() (backend.Audio, error) {
	return &Audio{}, nil
}

func (a *Audio) Descriptor() backend.Descriptor { return descriptor }

func (a *Audio) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	buf := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, framesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	a.stream = stream

	go a.mixLoop(buf)
	return nil
}

func (a *Audio) Play(clipID uint8, volume float32) error {
	freq := clipFrequencies[int(clipID)%len(clipFrequencies)]
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.voices) >= maxVoices {
		a.voices = a.voices[1:] // drop the oldest voice rather than clip a louder one
	}
	a.voices = append(a.voices, voice{freq: freq, volume: volume, total: int(clipDuration * sampleRate)})
	return nil
}

// Pause silences the mixer without closing the stream, so Resume is
// immediate; this is the one capability backend.Audio promises callers
// can rely on rather than find silently unsupported.
func (a *Audio) Pause() error {
	a.paused.Store(true)
	return nil
}

func (a *Audio) Resume() error {
	a.paused.Store(false)
	return nil
}

func (a *Audio) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	if a.stream != nil {
		a.stream.Stop()
		a.stream.Close()
	}
	return portaudio.Terminate()
}

func (a *Audio) mixLoop(buf []float32) {
	for !a.closed.Load() {
		if err := a.stream.Write(); err != nil {
			return
		}
		a.mix(buf)
	}
}

func (a *Audio) mix(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
	if a.paused.Load() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	live := a.voices[:0]
	for _, v := range a.voices {
		for i := range buf {
			if v.frame >= v.total {
				break
			}
			buf[i] += float32(math.Sin(v.phase)) * v.volume
			v.phase += 2 * math.Pi * v.freq / sampleRate
			v.frame++
		}
		if v.frame < v.total {
			live = append(live, v)
		}
	}
	a.voices = live
}
