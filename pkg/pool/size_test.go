package pool

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func mustPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func height(t *testing.T, p *Pool, id string) float64 {
	t.Helper()
	h, ok := p.LaneHeight(id)
	if !ok {
		t.Fatalf("LaneHeight(%q) not found", id)
	}
	return h
}

func TestScenarioHeights(t *testing.T) {
	tests := []struct {
		name  string
		lanes []LaneSpec
		want  map[string]float64
	}{
		{
			name:  "two flexible lanes",
			lanes: []LaneSpec{{}, {}},
			want:  map[string]float64{"0": 150, "1": 150},
		},
		{
			name:  "one fixed two flexible",
			lanes: []LaneSpec{{Size: Fixed(100)}, {}, {}},
			want:  map[string]float64{"0": 100, "1": 100, "2": 100},
		},
		{
			name: "overflowing flexible lane is pinned",
			lanes: []LaneSpec{
				{Size: Fixed(100)},
				{Sublanes: []LaneSpec{{Label: "inner", Size: Fixed(150)}}},
				{},
			},
			want: map[string]float64{"0": 100, "1": 150, "2": 50, "1_0": 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPool(t, WithSize(400, 300), WithLanes(tt.lanes))
			for id, want := range tt.want {
				if got := height(t, p, id); !near(got, want) {
					t.Errorf("LaneHeight(%q) = %v, want %v", id, got, want)
				}
			}
		})
	}
}

func TestMilestoneWidths(t *testing.T) {
	p := mustPool(t,
		WithSize(200, 100),
		WithMilestones([]MilestoneSpec{{Size: Fixed(40)}, {}}),
	)

	tests := []struct {
		id   string
		want float64
	}{
		{"milestone_0", 40},
		{"milestone_1", 160},
	}
	for _, tt := range tests {
		got, ok := p.MilestoneWidth(tt.id)
		if !ok {
			t.Fatalf("MilestoneWidth(%q) not found", tt.id)
		}
		if !near(got, tt.want) {
			t.Errorf("MilestoneWidth(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestMilestoneWidthsSplitEvenly(t *testing.T) {
	p := mustPool(t,
		WithSize(330, 100),
		WithPadding(Padding{Left: 20, Right: 10}),
		WithMilestones([]MilestoneSpec{{}, {Size: Fixed(60)}, {}, {}}),
	)
	for _, id := range []string{"milestone_0", "milestone_2", "milestone_3"} {
		if got, _ := p.MilestoneWidth(id); !near(got, 80) {
			t.Errorf("MilestoneWidth(%q) = %v, want 80", id, got)
		}
	}
}

func TestDistribute(t *testing.T) {
	flex := func(min float64) LaneMetrics { return LaneMetrics{ContentMinSize: min} }
	fixed := func(size, min float64) LaneMetrics {
		return LaneMetrics{Fixed: true, FixedSize: size, ContentMinSize: math.Max(size, min)}
	}

	tests := []struct {
		name     string
		budget   float64
		lanes    []LaneMetrics
		topLevel bool
		want     []float64
	}{
		{
			name:   "empty group",
			budget: 100,
			want:   []float64{},
		},
		{
			name:     "pin several in one pass",
			budget:   100,
			lanes:    []LaneMetrics{flex(40), flex(30), flex(0), flex(0)},
			topLevel: true,
			want:     []float64{40, 30, 15, 15},
		},
		{
			name:     "pinning cascades on the remainder",
			budget:   100,
			lanes:    []LaneMetrics{flex(45), flex(30), flex(0)},
			topLevel: true,
			want:     []float64{45, 30, 25},
		},
		{
			name:   "last sublane absorbs the rest",
			budget: 50,
			lanes:  []LaneMetrics{fixed(40, 0), fixed(30, 0)},
			want:   []float64{40, 10},
		},
		{
			name:     "last top-level fixed lane stretches",
			budget:   200,
			lanes:    []LaneMetrics{fixed(40, 0), fixed(30, 0)},
			topLevel: true,
			want:     []float64{40, 160},
		},
		{
			name:     "last top-level lane keeps its minimum",
			budget:   50,
			lanes:    []LaneMetrics{fixed(40, 0), fixed(30, 0)},
			topLevel: true,
			want:     []float64{40, 30},
		},
		{
			name:   "fixed size below content",
			budget: 300,
			lanes:  []LaneMetrics{fixed(50, 120), flex(0)},
			want:   []float64{120, 180},
		},
		{
			name:   "negative budget floors at zero",
			budget: -10,
			lanes:  []LaneMetrics{flex(0), flex(0)},
			want:   []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distribute(tt.budget, tt.lanes, tt.topLevel)
			if len(got) != len(tt.want) {
				t.Fatalf("distribute() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("distribute()[%d] = %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

// nestedLanes has fixed, flexible, labeled and nested lanes on three levels.
func nestedLanes() []LaneSpec {
	return []LaneSpec{
		{ID: "intake", Size: Fixed(100), Sublanes: []LaneSpec{
			{ID: "triage", Label: "Triage"},
			{ID: "review", Size: Fixed(30)},
			{ID: "archive"},
		}},
		{ID: "delivery", Label: "Delivery", Sublanes: []LaneSpec{
			{ID: "build", Size: Fixed(80)},
			{ID: "ship", Sublanes: []LaneSpec{{ID: "stage"}, {ID: "prod"}}},
		}},
		{ID: "support"},
	}
}

func TestNestedHeights(t *testing.T) {
	p := mustPool(t, WithSize(600, 500), WithLanes(nestedLanes()))

	want := map[string]float64{
		"intake":   100,
		"triage":   35,
		"review":   30,
		"archive":  35,
		"delivery": 200,
		"build":    80,
		"ship":     120,
		"stage":    60,
		"prod":     60,
		"support":  200,
	}
	for id, w := range want {
		if got := height(t, p, id); !near(got, w) {
			t.Errorf("LaneHeight(%q) = %v, want %v", id, got, w)
		}
	}
}

func TestTiling(t *testing.T) {
	for _, h := range []float64{300, 500, 777.7, 2000} {
		p := mustPool(t, WithSize(600, h), WithPadding(UniformPadding(5)), WithLanes(nestedLanes()))
		p.AutoResize()

		sums := make(map[string]float64)
		var top float64
		for _, id := range p.LaneIDs() {
			parent, ok := p.ParentLaneID(id)
			if !ok {
				top += height(t, p, id)
				continue
			}
			sums[parent] += height(t, p, id)
		}

		for parent, sum := range sums {
			if want := height(t, p, parent); !near(sum, want) {
				t.Errorf("height %v: children of %q sum to %v, want %v", h, parent, sum, want)
			}
		}
		size := p.Size()
		if want := size.Height - 10; !near(top, want) {
			t.Errorf("height %v: top-level lanes sum to %v, want %v", h, top, want)
		}
	}
}

func TestFixedRespected(t *testing.T) {
	p := mustPool(t, WithSize(600, 900), WithLanes(nestedLanes()))
	for id, want := range map[string]float64{"intake": 100, "review": 30, "build": 80} {
		if got := height(t, p, id); !near(got, want) {
			t.Errorf("LaneHeight(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestMonotonicGrowth(t *testing.T) {
	p := mustPool(t, WithSize(600, 400), WithLanes(nestedLanes()))
	ids := p.LaneIDs()
	before := make(map[string]float64, len(ids))
	for _, id := range ids {
		before[id] = height(t, p, id)
	}

	p.Resize(600, 650)

	fixed := map[string]bool{"intake": true, "triage": true, "review": true, "archive": true, "build": true}
	for _, id := range ids {
		after := height(t, p, id)
		if fixed[id] {
			if !near(after, before[id]) {
				t.Errorf("LaneHeight(%q) changed from %v to %v", id, before[id], after)
			}
			continue
		}
		if after < before[id]-eps {
			t.Errorf("LaneHeight(%q) shrank from %v to %v", id, before[id], after)
		}
	}
}

func TestLaneWidthSubtractsAncestorHeaders(t *testing.T) {
	p := mustPool(t,
		WithSize(400, 300),
		WithPadding(Padding{Left: 10, Right: 10}),
		WithHeaderSize(25),
		WithLanes([]LaneSpec{
			{Label: "A", Sublanes: []LaneSpec{
				{Label: "B", HeaderSize: Fixed(40), Sublanes: []LaneSpec{{}}},
			}},
		}),
	)

	tests := []struct {
		id   string
		want float64
	}{
		{"0", 380},
		{"0_0", 355},
		{"0_0_0", 315},
	}
	for _, tt := range tests {
		if got, _ := p.LaneWidth(tt.id); !near(got, tt.want) {
			t.Errorf("LaneWidth(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}

	p.Resize(50, 300)
	if got, _ := p.LaneWidth("0_0_0"); got != 0 {
		t.Errorf("LaneWidth() on a narrow pool = %v, want 0", got)
	}
}

func TestUnknownIDs(t *testing.T) {
	p := mustPool(t, WithLanes([]LaneSpec{{}}), WithMilestones([]MilestoneSpec{{}}))

	if _, ok := p.LaneHeight("nope"); ok {
		t.Error("LaneHeight(unknown) ok = true")
	}
	if _, ok := p.LaneWidth("milestone_0"); ok {
		t.Error("LaneWidth(milestone id) ok = true")
	}
	if _, ok := p.MilestoneWidth("0"); ok {
		t.Error("MilestoneWidth(lane id) ok = true")
	}
	if _, ok := p.LanePosition("nope"); ok {
		t.Error("LanePosition(unknown) ok = true")
	}
}
