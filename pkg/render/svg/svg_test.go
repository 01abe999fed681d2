package svg

import (
	"encoding/xml"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/poolkit/pkg/pool"
)

func testLayout(t *testing.T, opts ...pool.Option) pool.Layout {
	t.Helper()
	base := []pool.Option{
		pool.WithSize(400, 200),
		pool.WithLanes([]pool.LaneSpec{
			{ID: "plan", Label: "Plan & <Scope>", Size: pool.Fixed(80)},
			{ID: "build", Label: "Build", Sublanes: []pool.LaneSpec{{ID: "api"}, {ID: "ui", Label: "UI"}}},
		}),
		pool.WithMilestones([]pool.MilestoneSpec{{ID: "q1", Label: "Q1"}, {ID: "q2"}}),
	}
	p, err := pool.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("pool.New() error = %v", err)
	}
	return p.Layout()
}

func TestRenderSVGWellFormed(t *testing.T) {
	for _, style := range []Style{Plain{}, Striped{}} {
		out := RenderSVG(testLayout(t), WithStyle(style))
		dec := xml.NewDecoder(strings.NewReader(string(out)))
		for {
			_, err := dec.Token()
			if err != nil {
				if err != io.EOF {
					t.Errorf("%T: invalid XML: %v", style, err)
				}
				break
			}
		}
	}
}

func TestRenderSVGElements(t *testing.T) {
	out := string(RenderSVG(testLayout(t)))

	for _, want := range []string{
		`id="lane-plan"`,
		`id="lane-api"`,
		`id="lane-ui"`,
		`id="milestone-q1"`,
		`id="milestone-q2"`,
		`Plan &amp; &lt;Scope&gt;`,
		`>Q1</text>`,
		`viewBox="0.00 0.00 400.00 200.00"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if got := strings.Count(out, `class="lane-header"`); got != 3 {
		t.Errorf("lane headers = %d, want 3", got)
	}
	if strings.Contains(out, "rotate(0") {
		t.Error("unrotated pool should not emit a rotate transform")
	}
}

func TestRenderSVGWithoutLabels(t *testing.T) {
	out := string(RenderSVG(testLayout(t), WithoutLabels()))
	if strings.Contains(out, "<text") {
		t.Error("WithoutLabels() still emits text")
	}
	if !strings.Contains(out, `class="lane-header"`) {
		t.Error("WithoutLabels() should keep header strips")
	}
}

func TestRenderSVGRotated(t *testing.T) {
	out := string(RenderSVG(testLayout(t, pool.WithAngle(90)), WithMargin(5)))

	if !strings.Contains(out, `rotate(90 200.00 100.00)`) {
		t.Error("rotated pool should emit a rotate transform about its center")
	}
	if !strings.Contains(out, `viewBox="95.00 -105.00 210.00 410.00"`) {
		t.Errorf("viewBox does not cover the rotated pool:\n%s", out[:200])
	}
}

func TestViewBox(t *testing.T) {
	b := pool.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	got := viewBox(b, 180, 0)
	if math.Abs(got.Width-100) > 1e-9 || math.Abs(got.Height-50) > 1e-9 {
		t.Errorf("viewBox(180°) = %+v", got)
	}
	got = viewBox(b, 0, 10)
	if got != (pool.Rect{X: -10, Y: -10, Width: 120, Height: 70}) {
		t.Errorf("viewBox(margin) = %+v", got)
	}
}

func TestStyleByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"", Plain{}, false},
		{"plain", Plain{}, false},
		{"striped", Striped{}, false},
		{"handdrawn", nil, true},
	}
	for _, tt := range tests {
		got, err := StyleByName(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("StyleByName(%q) = %v, %v", tt.name, got, err)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := TruncateLabel("Backend", 200, 10); got != "Backend" {
		t.Errorf("TruncateLabel(fits) = %q", got)
	}
	got := TruncateLabel("Infrastructure and operations", 40, 10)
	if !strings.HasSuffix(got, "..") || len(got) >= len("Infrastructure and operations") {
		t.Errorf("TruncateLabel(long) = %q", got)
	}
}

func TestFontSizeBounds(t *testing.T) {
	if got := FontSize(1000, 1000, 1); got != fontSizeMax {
		t.Errorf("FontSize(large) = %v, want %v", got, fontSizeMax)
	}
	if got := FontSize(1, 1, 50); got != fontSizeMin {
		t.Errorf("FontSize(tiny) = %v, want %v", got, fontSizeMin)
	}
}
