package pool

import (
	"math"
	"strconv"

	"github.com/matzehuels/poolkit/pkg/errors"
)

// milestonePrefix prefixes positional milestone ids.
const milestonePrefix = "milestone_"

// LaneMetrics is the normalized, size-independent description of one lane.
type LaneMetrics struct {
	ID                  string  // positional id
	CustomID            string  // id declared in the LaneSpec, if any
	ParentID            string  // positional id of the parent, empty at top level
	NestLevel           int     // 0 for top-level lanes
	Index               int     // position within the parent's sublanes
	ParentSublanesCount int     // number of siblings including this lane
	SublanesCount       int     // number of direct sublanes
	Label               string  //
	HasLabel            bool    //
	HeaderSize          float64 // reserved header width, 0 when unlabeled
	Fixed               bool    // whether FixedSize was declared
	FixedSize           float64 //
	ContentMinSize      float64 // minimum height that fits the lane and its sublanes
}

// PublicID returns the custom id when declared, else the positional id.
func (m LaneMetrics) PublicID() string {
	if m.CustomID != "" {
		return m.CustomID
	}
	return m.ID
}

// IsTopLevel reports whether the lane sits directly in the pool.
func (m LaneMetrics) IsTopLevel() bool { return m.ParentID == "" }

// IsLast reports whether the lane is the last of its group.
func (m LaneMetrics) IsLast() bool { return m.Index == m.ParentSublanesCount-1 }

// minHeight is the height a fixed lane never goes below.
func (m LaneMetrics) minHeight() float64 {
	if m.Fixed {
		return math.Max(m.FixedSize, m.ContentMinSize)
	}
	return m.ContentMinSize
}

// MilestoneMetrics is the normalized description of one milestone.
type MilestoneMetrics struct {
	ID        string // positional id
	CustomID  string
	Index     int
	Label     string
	Fixed     bool
	FixedSize float64
}

// PublicID returns the custom id when declared, else the positional id.
func (m MilestoneMetrics) PublicID() string {
	if m.CustomID != "" {
		return m.CustomID
	}
	return m.ID
}

// Registry is the flat metrics store behind every query. It is rebuilt
// wholesale from the specs and never modified afterwards.
type Registry struct {
	lanes     map[string]LaneMetrics
	laneOrder []string            // pre-order
	laneNames map[string]string   // custom id -> positional id
	children  map[string][]string // parent positional id ("" for the pool) -> sublanes

	milestones     map[string]MilestoneMetrics
	milestoneOrder []string
	milestoneNames map[string]string

	totalTakenHeight float64
	topLaneCount     int
	milestoneCount   int
	padding          Padding
}

// buildConfig carries the pool settings the builders depend on.
type buildConfig struct {
	padding        Padding
	headerSize     float64
	milestonesSize float64
}

// buildRegistry runs the lane and milestone builders. On error nothing is
// returned, so a caller can never publish a partial registry.
func buildRegistry(lanes []LaneSpec, milestones []MilestoneSpec, cfg buildConfig) (*Registry, error) {
	for _, c := range []struct {
		what string
		v    float64
	}{
		{"header size", cfg.headerSize},
		{"milestones size", cfg.milestonesSize},
		{"top padding", cfg.padding.Top},
		{"left padding", cfg.padding.Left},
		{"right padding", cfg.padding.Right},
		{"bottom padding", cfg.padding.Bottom},
	} {
		if err := checkSize("pool", "config", c.what, c.v); err != nil {
			return nil, err
		}
	}

	r := &Registry{
		lanes:          make(map[string]LaneMetrics),
		laneNames:      make(map[string]string),
		children:       make(map[string][]string),
		milestones:     make(map[string]MilestoneMetrics),
		milestoneNames: make(map[string]string),
	}

	total, err := r.addLanes(lanes, "", 0, cfg.headerSize)
	if err != nil {
		return nil, err
	}
	if err := checkCollisions("lane", r.laneOrder, r.laneNames, func(id string) bool {
		_, ok := r.lanes[id]
		return ok
	}); err != nil {
		return nil, err
	}
	r.totalTakenHeight = total
	r.topLaneCount = len(lanes)

	if err := r.addMilestones(milestones); err != nil {
		return nil, err
	}
	if err := checkCollisions("milestone", r.milestoneOrder, r.milestoneNames, func(id string) bool {
		_, ok := r.milestones[id]
		return ok
	}); err != nil {
		return nil, err
	}
	r.milestoneCount = len(milestones)

	r.padding = cfg.padding
	if len(milestones) > 0 {
		r.padding.Top += cfg.milestonesSize
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// addLanes registers specs depth-first in pre-order and returns the sum of
// their content minimums.
func (r *Registry) addLanes(specs []LaneSpec, parentID string, level int, defaultHeader float64) (float64, error) {
	var sum float64
	for i, spec := range specs {
		id := strconv.Itoa(i)
		if parentID != "" {
			id = parentID + "_" + id
		}
		if _, dup := r.lanes[id]; dup {
			return 0, errors.New(errors.ErrCodeStructural, "duplicate positional lane id %q", id)
		}

		m := LaneMetrics{
			ID:                  id,
			CustomID:            spec.ID,
			ParentID:            parentID,
			NestLevel:           level,
			Index:               i,
			ParentSublanesCount: len(specs),
			SublanesCount:       len(spec.Sublanes),
			Label:               spec.Label,
			HasLabel:            spec.Label != "",
		}
		if m.HasLabel {
			m.HeaderSize = defaultHeader
			if spec.HeaderSize != nil {
				if err := checkSize("lane", id, "header size", *spec.HeaderSize); err != nil {
					return 0, err
				}
				m.HeaderSize = *spec.HeaderSize
			}
		}
		if spec.Size != nil {
			if err := checkSize("lane", id, "size", *spec.Size); err != nil {
				return 0, err
			}
			m.Fixed = true
			m.FixedSize = *spec.Size
		}
		if spec.ID != "" {
			if err := r.claimName("lane", r.laneNames, spec.ID, id); err != nil {
				return 0, err
			}
		}

		r.laneOrder = append(r.laneOrder, id)
		r.children[parentID] = append(r.children[parentID], id)
		// Reserve the slot so nested ids can detect duplicates.
		r.lanes[id] = m

		childMin, err := r.addLanes(spec.Sublanes, id, level+1, defaultHeader)
		if err != nil {
			return 0, err
		}
		m.ContentMinSize = childMin
		if m.Fixed {
			m.ContentMinSize = math.Max(m.FixedSize, childMin)
		}
		r.lanes[id] = m
		sum += m.ContentMinSize
	}
	return sum, nil
}

func (r *Registry) addMilestones(specs []MilestoneSpec) error {
	for i, spec := range specs {
		id := milestonePrefix + strconv.Itoa(i)
		m := MilestoneMetrics{
			ID:       id,
			CustomID: spec.ID,
			Index:    i,
			Label:    spec.Label,
		}
		if spec.Size != nil {
			if err := checkSize("milestone", id, "size", *spec.Size); err != nil {
				return err
			}
			m.Fixed = true
			m.FixedSize = *spec.Size
		}
		if spec.ID != "" {
			if err := r.claimName("milestone", r.milestoneNames, spec.ID, id); err != nil {
				return err
			}
		}
		r.milestones[id] = m
		r.milestoneOrder = append(r.milestoneOrder, id)
	}
	return nil
}

func (r *Registry) claimName(kind string, names map[string]string, name, id string) error {
	if err := errors.ValidateID(name); err != nil {
		return errors.Wrap(errors.ErrCodeStructural, err, "invalid %s id at %s", kind, id)
	}
	if _, dup := names[name]; dup {
		return errors.New(errors.ErrCodeStructural, "duplicate %s id %q", kind, name)
	}
	names[name] = id
	return nil
}

// checkCollisions rejects custom ids that shadow another element's
// positional id. A custom id equal to its own positional id is harmless.
func checkCollisions(kind string, order []string, names map[string]string, positional func(string) bool) error {
	owner := make(map[string]string, len(names))
	for name, id := range names {
		owner[id] = name
	}
	for _, id := range order {
		name, ok := owner[id]
		if !ok || name == id {
			continue
		}
		if positional(name) {
			return errors.New(errors.ErrCodeStructural, "%s id %q collides with a positional id", kind, name)
		}
	}
	return nil
}

func checkSize(kind, id, what string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeStructural, "%s %s: %s must be a finite non-negative number, got %v", kind, id, what, v)
	}
	return nil
}

// validate checks that every parent chain ends at the pool.
func (r *Registry) validate() error {
	for _, id := range r.laneOrder {
		seen := 0
		for cur := r.lanes[id]; cur.ParentID != ""; seen++ {
			parent, ok := r.lanes[cur.ParentID]
			if !ok {
				return errors.New(errors.ErrCodeStructural, "lane %q has unknown parent %q", cur.ID, cur.ParentID)
			}
			if seen > len(r.laneOrder) {
				return errors.New(errors.ErrCodeStructural, "lane %q has a cyclic parent chain", id)
			}
			cur = parent
		}
	}
	return nil
}

// Lane returns the metrics of a lane by custom or positional id.
func (r *Registry) Lane(id string) (LaneMetrics, bool) {
	pid, ok := r.laneID(id)
	if !ok {
		return LaneMetrics{}, false
	}
	return r.lanes[pid], true
}

// Milestone returns the metrics of a milestone by custom or positional id.
func (r *Registry) Milestone(id string) (MilestoneMetrics, bool) {
	pid, ok := r.milestoneID(id)
	if !ok {
		return MilestoneMetrics{}, false
	}
	return r.milestones[pid], true
}

// LaneCount returns the number of lanes at all levels.
func (r *Registry) LaneCount() int { return len(r.laneOrder) }

// TopLaneCount returns the number of top-level lanes.
func (r *Registry) TopLaneCount() int { return r.topLaneCount }

// MilestoneCount returns the number of milestones.
func (r *Registry) MilestoneCount() int { return r.milestoneCount }

// TotalTakenHeight is the sum of the top-level lanes' content minimum.
func (r *Registry) TotalTakenHeight() float64 { return r.totalTakenHeight }

// Padding is the configured padding with the milestone strip added to the
// top when milestones exist.
func (r *Registry) Padding() Padding { return r.padding }

func (r *Registry) laneID(id string) (string, bool) {
	if pid, ok := r.laneNames[id]; ok {
		return pid, true
	}
	_, ok := r.lanes[id]
	return id, ok
}

func (r *Registry) milestoneID(id string) (string, bool) {
	if pid, ok := r.milestoneNames[id]; ok {
		return pid, true
	}
	_, ok := r.milestones[id]
	return id, ok
}

// group returns the metrics of the sublanes of parentID in order.
func (r *Registry) group(parentID string) []LaneMetrics {
	ids := r.children[parentID]
	out := make([]LaneMetrics, len(ids))
	for i, id := range ids {
		out[i] = r.lanes[id]
	}
	return out
}

// headerChain sums the header sizes of id and all its ancestors.
func (r *Registry) headerChain(id string) float64 {
	var sum float64
	for cur, ok := r.lanes[id]; ok; cur, ok = r.lanes[cur.ParentID] {
		sum += cur.HeaderSize
	}
	return sum
}
