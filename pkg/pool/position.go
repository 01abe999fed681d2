package pool

// lanePosition returns the origin of a lane relative to its container: the
// pool for top-level lanes, the parent lane otherwise.
func (r resolver) lanePosition(pid string) Point {
	m := r.reg.lanes[pid]
	var y float64
	for _, h := range r.groupHeights(m.ParentID)[:m.Index] {
		y += h
	}
	if m.IsTopLevel() {
		return Point{X: r.reg.padding.Left, Y: r.reg.padding.Top + y}
	}
	return Point{X: r.reg.lanes[m.ParentID].HeaderSize, Y: y}
}

// laneOrigin accumulates container origins up to the pool.
func (r resolver) laneOrigin(pid string) Point {
	var origin Point
	for cur, ok := r.reg.lanes[pid]; ok; cur, ok = r.reg.lanes[cur.ParentID] {
		p := r.lanePosition(cur.ID)
		origin.X += p.X
		origin.Y += p.Y
	}
	return origin
}

// laneRect is the lane's rectangle relative to the pool origin.
func (r resolver) laneRect(pid string) Rect {
	o := r.laneOrigin(pid)
	return Rect{X: o.X, Y: o.Y, Width: r.laneWidth(pid), Height: r.laneHeight(pid)}
}

// milestonePosition is relative to the pool. The milestone strip sits
// directly above the lanes.
func (r resolver) milestonePosition(pid string) Point {
	m := r.reg.milestones[pid]
	x := r.reg.padding.Left
	for _, id := range r.reg.milestoneOrder[:m.Index] {
		x += r.milestoneWidth(id)
	}
	return Point{X: x, Y: r.reg.padding.Top - r.milestonesSize}
}

func (r resolver) milestoneRect(pid string) Rect {
	p := r.milestonePosition(pid)
	return Rect{X: p.X, Y: p.Y, Width: r.milestoneWidth(pid), Height: r.milestoneHeight()}
}
