// Package ebitenbackend adapts github.com/hajimehoshi/ebiten/v2 to
// internal/backend's Graphics and Input interfaces. ebiten owns its own
// run loop (ebiten.RunGame blocks the calling goroutine), which does not
// fit backend.Graphics's imperative BeginFrame/DrawSprite/EndFrame
// shape driven by clientnet's own tick loop; this backend bridges the
// two with a double-buffered command list, swapped at EndFrame and
// flushed whenever ebiten calls Draw.
package ebitenbackend

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/rtype/arcade/internal/backend"
	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
)

var descriptor = backend.Descriptor{Name: "ebiten", Version: "2"}

// spriteSize is the fixed visual footprint drawn for every entity kind;
// asset loading is out of scope, so entities render as colored
// rectangles keyed by EntityKind.
const spriteSize = 16

type drawCmd struct {
	kind     uint8
	x, y     float32
	rotation float32
}

type textCmd struct {
	text string
	x, y int
}

// Graphics is the ebiten-backed Graphics implementation. It also
// implements ebiten.Game directly, since ebiten.RunGame requires that
// interface and there is no benefit to a separate wrapper type.
type Graphics struct {
	width, height int

	mu       sync.Mutex
	building []drawCmd // commands queued since BeginFrame
	texts    []textCmd
	toDraw   []drawCmd // the most recently completed frame, read by Draw
	toDrawTx []textCmd

	runErr chan error
}

// New returns an unstarted ebiten Graphics backend.
func New() (backend.Graphics, error) {
	return &Graphics{runErr: make(chan error, 1)}, nil
}

func (g *Graphics) Descriptor() backend.Descriptor { return descriptor }

// Init sizes the window and starts ebiten's run loop on its own
// goroutine; ebiten.RunGame must run on the main OS thread on some
// platforms, so callers that need that guarantee should call
// ebiten.RunGame(g) directly from main instead of through Init. Init is the convenience
// path for headless-adjacent callers (tests, tooling) that only need
// the Graphics contract satisfied.
func (g *Graphics) Init(width, height int) error {
	g.width, g.height = width, height
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("arcade")
	go func() {
		g.runErr <- ebiten.RunGame(g)
	}()
	return nil
}

func (g *Graphics) BeginFrame() error {
	g.mu.Lock()
	g.building = g.building[:0]
	g.texts = g.texts[:0]
	g.mu.Unlock()
	return nil
}

func (g *Graphics) DrawSprite(kind uint8, x, y, rotation float32) error {
	g.mu.Lock()
	g.building = append(g.building, drawCmd{kind: kind, x: x, y: y, rotation: rotation})
	g.mu.Unlock()
	return nil
}

func (g *Graphics) DrawText(text string, x, y int) error {
	g.mu.Lock()
	g.texts = append(g.texts, textCmd{text: text, x: x, y: y})
	g.mu.Unlock()
	return nil
}

// EndFrame publishes the queued commands for the next ebiten Draw call.
func (g *Graphics) EndFrame() error {
	g.mu.Lock()
	g.toDraw = append(g.toDraw[:0], g.building...)
	g.toDrawTx = append(g.toDrawTx[:0], g.texts...)
	g.mu.Unlock()
	return nil
}

func (g *Graphics) Close() error {
	select {
	case err := <-g.runErr:
		return err
	default:
		return nil
	}
}

// Update satisfies ebiten.Game. clientnet drives simulation on its own
// tick loop, so Update itself does no work; ebiten still requires it.
func (g *Graphics) Update() error { return nil }

func (g *Graphics) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	cmds := append([]drawCmd(nil), g.toDraw...)
	texts := append([]textCmd(nil), g.toDrawTx...)
	g.mu.Unlock()

	for _, c := range cmds {
		vector.DrawFilledRect(screen, c.x-spriteSize/2, c.y-spriteSize/2, spriteSize, spriteSize, kindColor(c.kind), false)
	}
	for _, t := range texts {
		ebitenutil.DebugPrintAt(screen, t.text, t.x, t.y)
	}
}

func (g *Graphics) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func kindColor(kind uint8) color.Color {
	switch protocol.EntityKind(kind) {
	case protocol.EntityKindEnemy:
		return color.RGBA{R: 220, G: 50, B: 50, A: 255}
	case protocol.EntityKindProjectile:
		return color.RGBA{R: 250, G: 220, B: 80, A: 255}
	case protocol.EntityKindPowerup:
		return color.RGBA{R: 80, G: 200, B: 250, A: 255}
	default:
		return color.RGBA{R: 80, G: 220, B: 120, A: 255}
	}
}

// Input is the ebiten-backed Input implementation: WASD/arrow movement
// plus space to shoot, matching the InputFlags bitfield's four
// directions and one action flag.
type Input struct{}

// NewInput returns an ebiten-backed Input reader.
func NewInput() (backend.Input, error) { return &Input{}, nil }

func (i *Input) Descriptor() backend.Descriptor { return descriptor }

func (i *Input) Init() error { return nil }

func (i *Input) Poll() (flags uint16, shootPressed bool, err error) {
	var f ecs.InputFlags
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		f |= ecs.InputUp
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		f |= ecs.InputDown
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		f |= ecs.InputLeft
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		f |= ecs.InputRight
	}
	shoot := inpututil.IsKeyJustPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeySpace)
	if shoot {
		f |= ecs.InputShoot
	}
	return uint16(f), shoot, nil
}

func (i *Input) Close() error { return nil }
