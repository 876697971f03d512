// Package noopbackend implements every internal/backend interface as a
// headless stand-in: a session-driving bot, a server-side load test, or
// a unit test can select Descriptor{"noop","1"} and exercise clientnet
// without a window, audio device, or real keyboard.
package noopbackend

import "github.com/rtype/arcade/internal/backend"

var descriptor = backend.Descriptor{Name: "noop", Version: "1"}

type graphics struct{}

// NewGraphics returns a Graphics backend that discards every draw call.
func NewGraphics() (backend.Graphics, error) { return graphics{}, nil }

func (graphics) Descriptor() backend.Descriptor          { return descriptor }
func (graphics) Init(width, height int) error            { return nil }
func (graphics) BeginFrame() error                       { return nil }
func (graphics) DrawSprite(_ uint8, _, _, _ float32) error { return nil }
func (graphics) DrawText(_ string, _, _ int) error        { return nil }
func (graphics) EndFrame() error                          { return nil }
func (graphics) Close() error                             { return nil }

type audio struct{}

// NewAudio returns an Audio backend that discards every clip.
func NewAudio() (backend.Audio, error) { return audio{}, nil }

func (audio) Descriptor() backend.Descriptor       { return descriptor }
func (audio) Init() error                          { return nil }
func (audio) Play(_ uint8, _ float32) error        { return nil }
func (audio) Pause() error                         { return nil }
func (audio) Resume() error                        { return nil }
func (audio) Close() error                         { return nil }

// input reports no intent every tick; a scripted bot wanting specific
// input should implement backend.Input directly instead.
type input struct{}

// NewInput returns an Input backend that always reports no input.
func NewInput() (backend.Input, error) { return input{}, nil }

func (input) Descriptor() backend.Descriptor            { return descriptor }
func (input) Init() error                               { return nil }
func (input) Poll() (uint16, bool, error)                { return 0, false, nil }
func (input) Close() error                               { return nil }
