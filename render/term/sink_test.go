package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/gekko3d/backdrop/render/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

// MockScreen records cell writes; everything else panics through the nil
// embedded Screen.
type MockScreen struct {
	tcell.Screen
	width, height int
	colors        int
	cells         map[[2]int]cell
	shown         int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, colors: 1 << 24, cells: map[[2]int]cell{}}
}

func (m *MockScreen) Size() (int, int) { return m.width, m.height }
func (m *MockScreen) Colors() int      { return m.colors }
func (m *MockScreen) Show()            { m.shown++ }
func (m *MockScreen) Fill(r rune, style tcell.Style) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.cells[[2]int{x, y}] = cell{r, style}
		}
	}
}
func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = cell{mainc, style}
}

func (m *MockScreen) glyphs() int {
	n := 0
	for _, c := range m.cells {
		if c.r != ' ' {
			n++
		}
	}
	return n
}

func TestSink_DrawsParticleAtCentre(t *testing.T) {
	screen := newMockScreen(80, 24)
	s := NewSink(screen, render.DefaultCamera(), render.DefaultFog())

	frame := &field.Frame{
		Instances: []field.Instance{{Size: 0.05, Color: [4]float32{0.28, 0.344, 0.92, 1}}},
		Opacity:   1,
	}
	require.NoError(t, s.Draw(frame))

	assert.Equal(t, 1, s.Drawn())
	assert.Equal(t, 1, screen.shown)
	c := screen.cells[[2]int{40, 12}]
	assert.Equal(t, '●', c.r)
}

func TestSink_NearestWinsSharedCell(t *testing.T) {
	screen := newMockScreen(20, 10)
	s := NewSink(screen, render.DefaultCamera(), render.DefaultFog())

	frame := &field.Frame{
		Instances: []field.Instance{
			{Pos: [3]float32{0, 0, -18}, Size: 0.05, Color: [4]float32{1, 0, 0, 1}},
			{Pos: [3]float32{0, 0, 0}, Size: 0.05, Color: [4]float32{0, 0, 1, 1}},
		},
		Opacity: 1,
	}
	require.NoError(t, s.Draw(frame))

	assert.Equal(t, 1, screen.glyphs())
	assert.Equal(t, '●', screen.cells[[2]int{10, 5}].r)
}

func TestSink_EmptyFrameOnlyClears(t *testing.T) {
	screen := newMockScreen(10, 5)
	s := NewSink(screen, render.DefaultCamera(), render.DefaultFog())

	require.NoError(t, s.Draw(&field.Frame{Opacity: 1}))
	assert.Equal(t, 0, screen.glyphs())
	assert.Len(t, screen.cells, 50)
}

func TestSink_ZeroSizedTerminal(t *testing.T) {
	s := NewSink(newMockScreen(0, 0), render.DefaultCamera(), render.DefaultFog())
	assert.Error(t, s.Draw(&field.Frame{}))
}

func TestGlyphFor(t *testing.T) {
	assert.Equal(t, '●', glyphFor(0))
	assert.Equal(t, '·', glyphFor(1))
}

func TestGradientPresenter_PaintsEveryCell(t *testing.T) {
	screen := newMockScreen(12, 6)
	g := NewGradientPresenter(screen, raster.DefaultGradient())

	require.NoError(t, g.Present(0))
	require.NoError(t, g.Present(2))
	assert.Len(t, screen.cells, 72)
	assert.Equal(t, 2, screen.shown)
	assert.Equal(t, 0, screen.glyphs())
}

func TestCheckColors(t *testing.T) {
	screen := newMockScreen(1, 1)
	assert.NoError(t, CheckColors(screen, 256))

	screen.colors = 16
	assert.Error(t, CheckColors(screen, 256))
	assert.Error(t, CheckColors(nil, 256))
}

func TestGradientPresenter_FadesIn(t *testing.T) {
	screen := newMockScreen(8, 4)
	g := NewGradientPresenter(screen, raster.DefaultGradient())
	bg := toTcell(render.Background)

	require.NoError(t, g.Present(0))
	for _, c := range screen.cells {
		_, cellBg, _ := c.style.Decompose()
		assert.Equal(t, bg, cellBg)
	}

	require.NoError(t, g.Present(field.FadeInDuration))
	_, corner, _ := screen.cells[[2]int{4, 3}].style.Decompose()
	assert.NotEqual(t, bg, corner, "fully faded in gradient differs from the page colour")
}
