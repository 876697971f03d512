// Package backend defines the swappable capability surfaces clientnet
// renders and plays sound through and reads input from, so the
// prediction/interpolation core never imports a concrete rendering or
// audio library directly. Capabilities are named and registrable
// rather than hung off one monolithic app struct.
package backend

import "fmt"

// Descriptor names one concrete backend implementation, keyed by a
// human name and a version string (so noopbackend can stand in for
// ebitenbackend under the same Graphics interface in headless tests or
// a dedicated bot client).
type Descriptor struct {
	Name    string
	Version string
}

func (d Descriptor) String() string { return fmt.Sprintf("%s/%s", d.Name, d.Version) }

// Graphics draws the frame clientnet has already computed: interpolated
// remote entities, the locally predicted player, and HUD text. Width
// and Height are logical pixels, matching the map dimensions the
// server's AcceptPayload reports.
type Graphics interface {
	Descriptor() Descriptor
	Init(width, height int) error
	BeginFrame() error
	DrawSprite(kind uint8, x, y, rotation float32) error
	DrawText(text string, x, y int) error
	EndFrame() error
	Close() error
}

// Audio plays short sound effects keyed by an application-defined clip
// id (explosion, pickup, etc.) and supports pausing playback wholesale;
// a backend that cannot actually pause must say so rather than
// silently substitute stop.
type Audio interface {
	Descriptor() Descriptor
	Init() error
	Play(clipID uint8, volume float32) error
	Pause() error
	Resume() error
	Close() error
}

// Input reports the current tick's intent as the same InputFlags
// bitfield the wire protocol and server movement rule use, so a
// backend's key/button mapping is the only place input polling and the
// network layer ever need to agree.
type Input interface {
	Descriptor() Descriptor
	Init() error
	Poll() (flags uint16, shootPressed bool, err error)
	Close() error
}

// Factory constructs one backend instance on demand. Kept separate from
// the interfaces above so a Registry can defer construction (and its
// side effects, like opening a window or an audio device) until a
// caller actually selects that Descriptor.
type GraphicsFactory func() (Graphics, error)
type AudioFactory func() (Audio, error)
type InputFactory func() (Input, error)

// Registry maps a Descriptor to the factory that builds it. One
// instance typically holds every compiled-in backend so a client binary
// can select one at startup (e.g. --graphics=ebiten/2 vs
// --graphics=noop/1 for an automated bot).
type Registry struct {
	graphics map[Descriptor]GraphicsFactory
	audio    map[Descriptor]AudioFactory
	input    map[Descriptor]InputFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		graphics: make(map[Descriptor]GraphicsFactory),
		audio:    make(map[Descriptor]AudioFactory),
		input:    make(map[Descriptor]InputFactory),
	}
}

func (r *Registry) RegisterGraphics(d Descriptor, f GraphicsFactory) { r.graphics[d] = f }
func (r *Registry) RegisterAudio(d Descriptor, f AudioFactory)       { r.audio[d] = f }
func (r *Registry) RegisterInput(d Descriptor, f InputFactory)       { r.input[d] = f }

func (r *Registry) Graphics(d Descriptor) (Graphics, error) {
	f, ok := r.graphics[d]
	if !ok {
		return nil, fmt.Errorf("backend: no graphics backend registered for %s", d)
	}
	return f()
}

func (r *Registry) Audio(d Descriptor) (Audio, error) {
	f, ok := r.audio[d]
	if !ok {
		return nil, fmt.Errorf("backend: no audio backend registered for %s", d)
	}
	return f()
}

func (r *Registry) Input(d Descriptor) (Input, error) {
	f, ok := r.input[d]
	if !ok {
		return nil, fmt.Errorf("backend: no input backend registered for %s", d)
	}
	return f()
}
