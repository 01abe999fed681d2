package pool

// =============================================================================
// Size and position
// =============================================================================

// LaneWidth returns the width of a lane: the pool content width minus the
// header strips of its ancestors.
func (p *Pool) LaneWidth(id string) (float64, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return 0, false
	}
	return r.laneWidth(pid), true
}

// LaneHeight returns the height of a lane.
func (p *Pool) LaneHeight(id string) (float64, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return 0, false
	}
	return r.laneHeight(pid), true
}

// LanePosition returns the origin of a lane relative to its container: the
// pool for top-level lanes, the parent lane for sublanes.
func (p *Pool) LanePosition(id string) (Point, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return Point{}, false
	}
	return r.lanePosition(pid), true
}

// MilestoneWidth returns the width of a milestone column.
func (p *Pool) MilestoneWidth(id string) (float64, bool) {
	r := p.resolve()
	pid, ok := r.reg.milestoneID(id)
	if !ok {
		return 0, false
	}
	return r.milestoneWidth(pid), true
}

// MilestoneHeight returns the height of a milestone column: the strip plus
// the pool content below it.
func (p *Pool) MilestoneHeight(id string) (float64, bool) {
	r := p.resolve()
	if _, ok := r.reg.milestoneID(id); !ok {
		return 0, false
	}
	return r.milestoneHeight(), true
}

// MilestonePosition returns the origin of a milestone relative to the pool.
func (p *Pool) MilestonePosition(id string) (Point, bool) {
	r := p.resolve()
	pid, ok := r.reg.milestoneID(id)
	if !ok {
		return Point{}, false
	}
	return r.milestonePosition(pid), true
}

// =============================================================================
// Bounding boxes
// =============================================================================

// LaneBBox returns the absolute, unrotated rectangle of a lane.
func (p *Pool) LaneBBox(id string) (Rect, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return Rect{}, false
	}
	return r.laneBBox(pid), true
}

// LaneLabelBBox returns the header strip allotted to a lane's label. It
// reports false for unknown or unlabeled lanes.
func (p *Pool) LaneLabelBBox(id string) (Rect, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return Rect{}, false
	}
	return r.laneLabelBBox(pid)
}

// MilestoneBBox returns the absolute, unrotated rectangle of a milestone
// column, strip included.
func (p *Pool) MilestoneBBox(id string) (Rect, bool) {
	r := p.resolve()
	pid, ok := r.reg.milestoneID(id)
	if !ok {
		return Rect{}, false
	}
	return r.milestoneBBox(pid), true
}

// MilestoneLabelBBox returns the strip cell allotted to a milestone's label.
func (p *Pool) MilestoneLabelBBox(id string) (Rect, bool) {
	r := p.resolve()
	pid, ok := r.reg.milestoneID(id)
	if !ok {
		return Rect{}, false
	}
	return r.milestoneLabelBBox(pid)
}

// =============================================================================
// Hit-testing
// =============================================================================

// LanesFromPoint returns the lanes under an absolute point, innermost
// first. The point is taken on the rotated pool. It returns nil when the
// point misses every lane.
func (p *Pool) LanesFromPoint(pt Point) []string {
	return p.resolve().lanesFromPoint(pt)
}

// MilestoneFromPoint returns the milestone column under an absolute point.
func (p *Pool) MilestoneFromPoint(pt Point) (string, bool) {
	return p.resolve().milestoneFromPoint(pt)
}

// =============================================================================
// Editing support
// =============================================================================

// LanePath returns the location of a lane in the LaneSpec tree.
func (p *Pool) LanePath(id string) (Path, bool) {
	r := p.resolve()
	pid, ok := r.reg.laneID(id)
	if !ok {
		return nil, false
	}
	return r.lanePath(pid), true
}

// ParentLaneID returns the public id of a lane's parent. It reports false
// for unknown and top-level lanes.
func (p *Pool) ParentLaneID(id string) (string, bool) {
	reg := p.Registry()
	m, ok := reg.Lane(id)
	if !ok || m.IsTopLevel() {
		return "", false
	}
	return reg.lanes[m.ParentID].PublicID(), true
}

// LaneIDs returns the public ids of all lanes in pre-order.
func (p *Pool) LaneIDs() []string {
	reg := p.Registry()
	ids := make([]string, len(reg.laneOrder))
	for i, id := range reg.laneOrder {
		ids[i] = reg.lanes[id].PublicID()
	}
	return ids
}

// MilestoneIDs returns the public ids of all milestones in order.
func (p *Pool) MilestoneIDs() []string {
	reg := p.Registry()
	ids := make([]string, len(reg.milestoneOrder))
	for i, id := range reg.milestoneOrder {
		ids[i] = reg.milestones[id].PublicID()
	}
	return ids
}
