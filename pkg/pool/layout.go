package pool

// Layout is an immutable snapshot of every computed rectangle, in absolute
// unrotated coordinates. Renderers rotate the whole pool by Angle about the
// center of Bounds.
type Layout struct {
	Bounds     Rect           `json:"bounds"`
	Angle      float64        `json:"angle,omitempty"`
	Padding    Padding        `json:"padding"`
	Lanes      []LaneBox      `json:"lanes"`
	Milestones []MilestoneBox `json:"milestones,omitempty"`
}

// LaneBox is the computed geometry of one lane.
type LaneBox struct {
	ID           string `json:"id"`
	PositionalID string `json:"positional_id"`
	ParentID     string `json:"parent_id,omitempty"`
	Level        int    `json:"level"`
	Label        string `json:"label,omitempty"`
	Rect         Rect   `json:"rect"`
	LabelRect    *Rect  `json:"label_rect,omitempty"`
	Fixed        bool   `json:"fixed,omitempty"`
	Path         Path   `json:"path"`
}

// MilestoneBox is the computed geometry of one milestone column.
type MilestoneBox struct {
	ID           string `json:"id"`
	PositionalID string `json:"positional_id"`
	Label        string `json:"label,omitempty"`
	Rect         Rect   `json:"rect"`
	LabelRect    *Rect  `json:"label_rect,omitempty"`
	Fixed        bool   `json:"fixed,omitempty"`
}

// Layout computes all rectangles against one consistent state. Lanes are
// listed in pre-order, so parents precede their sublanes.
func (p *Pool) Layout() Layout {
	r := p.resolve()
	reg := r.reg

	l := Layout{
		Bounds:  r.poolRect(),
		Angle:   r.angle,
		Padding: reg.Padding(),
		Lanes:   make([]LaneBox, 0, len(reg.laneOrder)),
	}

	for _, id := range reg.laneOrder {
		m := reg.lanes[id]
		box := LaneBox{
			ID:           m.PublicID(),
			PositionalID: id,
			Level:        m.NestLevel,
			Label:        m.Label,
			Rect:         r.laneBBox(id),
			Fixed:        m.Fixed,
			Path:         r.lanePath(id),
		}
		if !m.IsTopLevel() {
			box.ParentID = reg.lanes[m.ParentID].PublicID()
		}
		if lr, ok := r.laneLabelBBox(id); ok {
			box.LabelRect = &lr
		}
		l.Lanes = append(l.Lanes, box)
	}

	for _, id := range reg.milestoneOrder {
		m := reg.milestones[id]
		box := MilestoneBox{
			ID:           m.PublicID(),
			PositionalID: id,
			Label:        m.Label,
			Rect:         r.milestoneBBox(id),
			Fixed:        m.Fixed,
		}
		if lr, ok := r.milestoneLabelBBox(id); ok {
			box.LabelRect = &lr
		}
		l.Milestones = append(l.Milestones, box)
	}
	return l
}

// Lane returns the box with the given public or positional id.
func (l Layout) Lane(id string) (LaneBox, bool) {
	for _, b := range l.Lanes {
		if b.ID == id || b.PositionalID == id {
			return b, true
		}
	}
	return LaneBox{}, false
}

// Milestone returns the box with the given public or positional id.
func (l Layout) Milestone(id string) (MilestoneBox, bool) {
	for _, b := range l.Milestones {
		if b.ID == id || b.PositionalID == id {
			return b, true
		}
	}
	return MilestoneBox{}, false
}
