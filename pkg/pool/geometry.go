package pool

import "math"

func (r resolver) poolRect() Rect {
	return Rect{X: r.position.X, Y: r.position.Y, Width: r.size.Width, Height: r.size.Height}
}

func (r resolver) laneBBox(pid string) Rect {
	return r.laneRect(pid).Offset(r.position.X, r.position.Y)
}

// laneLabelBBox is the header strip on the lane's left edge.
func (r resolver) laneLabelBBox(pid string) (Rect, bool) {
	m := r.reg.lanes[pid]
	if !m.HasLabel {
		return Rect{}, false
	}
	b := r.laneBBox(pid)
	b.Width = math.Min(m.HeaderSize, b.Width)
	return b, true
}

func (r resolver) milestoneBBox(pid string) Rect {
	return r.milestoneRect(pid).Offset(r.position.X, r.position.Y)
}

// milestoneLabelBBox is the milestone's cell in the strip above the lanes.
func (r resolver) milestoneLabelBBox(pid string) (Rect, bool) {
	if r.reg.milestones[pid].Label == "" {
		return Rect{}, false
	}
	b := r.milestoneBBox(pid)
	b.Height = math.Min(r.milestonesSize, b.Height)
	return b, true
}

// localPoint maps a point on the rotated pool back to unrotated diagram
// coordinates.
func (r resolver) localPoint(pt Point) Point {
	return rotate(pt, r.poolRect().Center(), -r.angle)
}

// lanesFromPoint descends from the pool into the first lane containing pt
// at each level. The result runs from the innermost lane outwards.
func (r resolver) lanesFromPoint(pt Point) []string {
	p := r.localPoint(pt)
	if !r.poolRect().Contains(p) {
		return nil
	}

	var chain []string
	parent := ""
	for {
		found := false
		for _, id := range r.reg.children[parent] {
			if r.laneBBox(id).Contains(p) {
				chain = append(chain, r.reg.lanes[id].PublicID())
				parent = id
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (r resolver) milestoneFromPoint(pt Point) (string, bool) {
	p := r.localPoint(pt)
	if !r.poolRect().Contains(p) {
		return "", false
	}
	for _, id := range r.reg.milestoneOrder {
		if r.milestoneBBox(id).Contains(p) {
			return r.reg.milestones[id].PublicID(), true
		}
	}
	return "", false
}
