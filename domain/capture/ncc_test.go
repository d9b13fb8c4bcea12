package capture

import (
	"testing"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// ringTemplate is an outline with a diagonal stroke; the outline touches every
// border so no shifted window reproduces it.
func ringTemplate(name string, w, h int) *Template {
	f := synthGray(w, h, func(x, y int) uint8 {
		if x == 0 || y == 0 || x == w-1 || y == h-1 || x == y {
			return 255
		}
		return 0
	})
	return &Template{Name: name, Edges: f}
}

func crossTemplate(name string, w, h int) *Template {
	f := synthGray(w, h, func(x, y int) uint8 {
		if x == w/2 || y == h/2 {
			return 255
		}
		return 0
	})
	return &Template{Name: name, Edges: f}
}

func paste(dst *Frame, src *Frame, x0, y0 int) {
	for y := 0; y < src.Height; y++ {
		copy(dst.Pix[(y0+y)*dst.Width+x0:], src.Pix[y*src.Width:(y+1)*src.Width])
	}
}

func TestLocate_FindsPastedTemplate(t *testing.T) {
	tmpl := ringTemplate("ring.png", 12, 8)
	frame := NewFrame(60, 40)
	paste(frame, tmpl.Edges, 23, 11)

	res, err := NewLocator(4).Locate(frame, tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Region.X != 23 || res.Region.Y != 11 {
		t.Fatalf("expected (23,11) got (%d,%d)", res.Region.X, res.Region.Y)
	}
	if res.Region.W != 12 || res.Region.H != 8 {
		t.Fatalf("region should equal template size, got %dx%d", res.Region.W, res.Region.H)
	}
	if res.Score <= 0.99 {
		t.Fatalf("expected score > 0.99 got %f", res.Score)
	}
	if res.Template != "ring.png" {
		t.Fatalf("unexpected template name %q", res.Template)
	}
}

func TestLocate_TemplateLargerThanFrame(t *testing.T) {
	tmpl := ringTemplate("big.png", 30, 10)
	_, err := Locate(NewFrame(20, 20), tmpl)
	if !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error, got %v", err)
	}
	be, ok := err.(*boterrors.BotError)
	if !ok || be.Metadata["frame"] != "20x20" || be.Metadata["template"] != "30x10" {
		t.Fatalf("expected dimension metadata, got %v", err)
	}
}

func TestLocate_UniformFrameScoresZeroAtOrigin(t *testing.T) {
	tmpl := ringTemplate("ring.png", 6, 6)
	res, err := Locate(NewFrame(30, 20), tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("zero-variance windows must score 0, got %f", res.Score)
	}
	if res.Region.X != 0 || res.Region.Y != 0 {
		t.Fatalf("ties must resolve to first row-major position, got (%d,%d)", res.Region.X, res.Region.Y)
	}
}

func TestLocate_TieGoesToFirstRowMajor(t *testing.T) {
	tmpl := ringTemplate("ring.png", 8, 6)
	frame := NewFrame(64, 48)
	paste(frame, tmpl.Edges, 5, 30)
	paste(frame, tmpl.Edges, 40, 4)

	for _, workers := range []int{1, 3, 16} {
		l := NewLocator(1)
		l.workers = workers
		res, err := l.Locate(frame, tmpl)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Region.X != 40 || res.Region.Y != 4 {
			t.Fatalf("workers=%d: expected (40,4) got (%d,%d)", workers, res.Region.X, res.Region.Y)
		}
	}
}

func TestLocate_ScoresStayInRange(t *testing.T) {
	tmpl := crossTemplate("cross.png", 7, 7)
	frame := synthGray(40, 30, func(x, y int) uint8 {
		if (x*7+y*3)%5 == 0 {
			return 255
		}
		return 0
	})
	res, err := Locate(frame, tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score < -1 || res.Score > 1 {
		t.Fatalf("score out of range: %f", res.Score)
	}
}

func TestLocateBest_PicksMatchingTemplate(t *testing.T) {
	ring := ringTemplate("a_ring.png", 10, 10)
	cross := crossTemplate("b_cross.png", 9, 9)
	frame := NewFrame(50, 50)
	paste(frame, cross.Edges, 17, 21)

	res, err := LocateBest(frame, []*Template{ring, cross})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Template != "b_cross.png" {
		t.Fatalf("expected cross template, got %q (score %f)", res.Template, res.Score)
	}
	if res.Region.X != 17 || res.Region.Y != 21 {
		t.Fatalf("expected (17,21) got (%d,%d)", res.Region.X, res.Region.Y)
	}
}

func TestLocateBest_TieGoesToEarlierTemplate(t *testing.T) {
	a := ringTemplate("a.png", 6, 6)
	b := ringTemplate("b.png", 6, 6)
	frame := NewFrame(20, 20)
	paste(frame, a.Edges, 3, 3)

	res, err := LocateBest(frame, []*Template{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Template != "a.png" {
		t.Fatalf("expected earlier template on tie, got %q", res.Template)
	}
}

func TestLocateBest_NoTemplates(t *testing.T) {
	if _, err := LocateBest(NewFrame(10, 10), nil); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error, got %v", err)
	}
}

func TestDetector_EmptyTemplateSet(t *testing.T) {
	d := NewDetector(nil, nil, DefaultEdgeOptions(), 0, false)
	if _, err := d.Detect(NewFrame(10, 10)); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error, got %v", err)
	}
}

func TestDetector_IndexOutOfRange(t *testing.T) {
	d := NewDetector(nil, []*Template{ringTemplate("r.png", 4, 4)}, DefaultEdgeOptions(), 3, false)
	if _, err := d.Detect(NewFrame(10, 10)); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error, got %v", err)
	}
}

func TestDetector_LocatesStepEdgeTemplate(t *testing.T) {
	raw := synthGray(40, 30, func(x, y int) uint8 {
		if x >= 12 && x < 20 && y >= 8 && y < 16 {
			return 220
		}
		return 10
	})
	edges, err := EdgeFilter(raw, DefaultEdgeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// cut a template around the square from the edge map itself
	tmplEdges := NewFrame(12, 12)
	for y := 0; y < 12; y++ {
		copy(tmplEdges.Pix[y*12:(y+1)*12], edges.Pix[(6+y)*edges.Width+10:(6+y)*edges.Width+22])
	}
	d := NewDetector(nil, []*Template{{Name: "square.png", Edges: tmplEdges}}, DefaultEdgeOptions(), 0, false)
	res, err := d.Detect(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Region.X != 10 || res.Region.Y != 6 {
		t.Fatalf("expected (10,6) got (%d,%d) score %f", res.Region.X, res.Region.Y, res.Score)
	}
}
