package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	first := []rune(lines[0])
	if first[0] != 0x2801 {
		t.Errorf("top-left cell = %U, want U+2801", first[0])
	}
	for _, r := range first[1:] {
		if r != 0x2800 {
			t.Errorf("unexpected lit cell %U", r)
		}
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 0)
	c.Set(0, 100)

	for _, r := range c.String() {
		if r != 0x2800 && r != '\n' {
			t.Errorf("out-of-range set lit cell %U", r)
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Dot(2, 4)
	c.Clear()
	for _, r := range c.String() {
		if r != 0x2800 && r != '\n' {
			t.Errorf("cell %U survived clear", r)
		}
	}
}

func TestProjectionCentersOrigin(t *testing.T) {
	c := NewCanvas(10, 10)
	proj := Projection{Axes: [2]int{0, 1}, Extent: 1}

	x, y := proj.Project(c, []float64{0, 0, 0})
	pw, ph := c.PixelSize()
	if x != pw/2 || y != ph/2 {
		t.Errorf("origin projected to (%d,%d), want (%d,%d)", x, y, pw/2, ph/2)
	}

	// +y in the world is up on screen.
	_, yUp := proj.Project(c, []float64{0, 0.5, 0})
	if yUp >= ph/2 {
		t.Errorf("positive y projected down: %d", yUp)
	}
}

func TestProjectionAxisSelection(t *testing.T) {
	c := NewCanvas(10, 10)
	pos := []float64{0.5, 0, 0}

	xy := Projection{Axes: [2]int{0, 1}, Extent: 1}
	yz := Projection{Axes: [2]int{1, 2}, Extent: 1}

	pw, ph := c.PixelSize()
	if x, _ := xy.Project(c, pos); x == pw/2 {
		t.Error("x component ignored in x/y view")
	}
	if x, y := yz.Project(c, pos); x != pw/2 || y != ph/2 {
		t.Errorf("y/z view moved by x component: (%d,%d)", x, y)
	}
}

func TestDrawCloud(t *testing.T) {
	c := NewCanvas(10, 10)
	x := []float64{0, 0, 0, 0.5, 0.5, 0}
	c.DrawCloud(x, Projection{Axes: [2]int{0, 1}, Extent: 1})

	lit := 0
	for _, r := range c.String() {
		if r != 0x2800 && r != '\n' {
			lit++
		}
	}
	if lit < 2 {
		t.Errorf("expected at least 2 lit cells, got %d", lit)
	}
}

func TestEnergyPlotShortSeries(t *testing.T) {
	if got := EnergyPlot([]float64{1}, "x"); !strings.Contains(got, "not enough") {
		t.Errorf("unexpected output for short series: %q", got)
	}
	if got := EnergyPlot([]float64{1, 2, 3}, "energy"); !strings.Contains(got, "energy") {
		t.Error("caption missing from plot")
	}
}
