package pool

import "math"

// resolver answers size and position queries against one registry and one
// pool geometry. It is a value captured under the pool's read lock.
type resolver struct {
	reg            *Registry
	size           Size
	position       Point
	angle          float64
	milestonesSize float64
}

func (r resolver) contentWidth() float64 {
	return floor0(r.size.Width - r.reg.padding.Left - r.reg.padding.Right)
}

func (r resolver) contentHeight() float64 {
	return floor0(r.size.Height - r.reg.padding.Top - r.reg.padding.Bottom)
}

// laneWidth is the content width minus the header strips of every ancestor.
func (r resolver) laneWidth(pid string) float64 {
	w := r.contentWidth()
	m := r.reg.lanes[pid]
	return floor0(w - r.reg.headerChain(m.ParentID))
}

func (r resolver) laneHeight(pid string) float64 {
	m := r.reg.lanes[pid]
	return r.groupHeights(m.ParentID)[m.Index]
}

// available is the height shared by the sublanes of parentID.
func (r resolver) available(parentID string) float64 {
	if parentID == "" {
		return r.contentHeight()
	}
	return r.laneHeight(parentID)
}

// groupHeights distributes the height of parentID among its sublanes.
func (r resolver) groupHeights(parentID string) []float64 {
	return distribute(r.available(parentID), r.reg.group(parentID), parentID == "")
}

// distribute splits budget among one group of sibling lanes.
//
// Fixed lanes take max(size, content). Flexible lanes share the rest
// evenly; a flexible lane whose content exceeds its share is pinned to its
// content and the remainder is redivided until no further lane overflows.
// The last lane takes whatever is left so the group tiles budget exactly. At
// top level it never shrinks below its own minimum.
func distribute(budget float64, lanes []LaneMetrics, topLevel bool) []float64 {
	n := len(lanes)
	heights := make([]float64, n)
	if n == 0 {
		return heights
	}

	pinned := make([]bool, n)
	var taken float64
	flexible := 0
	for _, l := range lanes {
		if l.Fixed {
			taken += l.minHeight()
		} else {
			flexible++
		}
	}

	var share float64
	for flexible > 0 {
		share = (budget - taken) / float64(flexible)
		overflow := false
		for i, l := range lanes {
			if l.Fixed || pinned[i] || l.ContentMinSize <= share {
				continue
			}
			pinned[i] = true
			taken += l.ContentMinSize
			flexible--
			overflow = true
		}
		if !overflow {
			break
		}
	}

	for i, l := range lanes {
		switch {
		case l.Fixed:
			heights[i] = l.minHeight()
		case pinned[i]:
			heights[i] = l.ContentMinSize
		default:
			heights[i] = math.Max(l.ContentMinSize, share)
		}
		heights[i] = floor0(heights[i])
	}

	last := n - 1
	var before float64
	for _, h := range heights[:last] {
		before += h
	}
	rest := budget - before
	if topLevel {
		heights[last] = floor0(math.Max(heights[last], rest))
	} else {
		heights[last] = floor0(rest)
	}
	return heights
}

// milestoneWidth returns the declared size, or an even share of the width
// left over by fixed milestones.
func (r resolver) milestoneWidth(pid string) float64 {
	m := r.reg.milestones[pid]
	if m.Fixed {
		return floor0(m.FixedSize)
	}
	var taken float64
	flexible := 0
	for _, id := range r.reg.milestoneOrder {
		if o := r.reg.milestones[id]; o.Fixed {
			taken += o.FixedSize
		} else {
			flexible++
		}
	}
	return floor0((r.contentWidth() - taken) / float64(flexible))
}

// milestoneHeight spans the milestone strip and the lanes below it.
func (r resolver) milestoneHeight() float64 {
	return r.milestonesSize + r.contentHeight()
}
