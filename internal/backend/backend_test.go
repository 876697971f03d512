package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorString(t *testing.T) {
	d := Descriptor{Name: "noop", Version: "1"}
	assert.Equal(t, "noop/1", d.String())
}

type fakeGraphics struct{}

func (fakeGraphics) Descriptor() Descriptor          { return Descriptor{Name: "fake", Version: "1"} }
func (fakeGraphics) Init(_, _ int) error             { return nil }
func (fakeGraphics) BeginFrame() error                { return nil }
func (fakeGraphics) DrawSprite(_ uint8, _, _, _ float32) error { return nil }
func (fakeGraphics) DrawText(_ string, _, _ int) error { return nil }
func (fakeGraphics) EndFrame() error                   { return nil }
func (fakeGraphics) Close() error                      { return nil }

func TestRegistryGraphicsRoundTrip(t *testing.T) {
	r := NewRegistry()
	d := Descriptor{Name: "fake", Version: "1"}
	r.RegisterGraphics(d, func() (Graphics, error) { return fakeGraphics{}, nil })

	g, err := r.Graphics(d)
	require.NoError(t, err)
	assert.Equal(t, d, g.Descriptor())
}

func TestRegistryUnregisteredDescriptorErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Graphics(Descriptor{Name: "missing", Version: "1"})
	assert.Error(t, err)

	_, err = r.Audio(Descriptor{Name: "missing", Version: "1"})
	assert.Error(t, err)

	_, err = r.Input(Descriptor{Name: "missing", Version: "1"})
	assert.Error(t, err)
}
