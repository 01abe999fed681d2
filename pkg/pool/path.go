package pool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path segment keys.
const (
	KeyLanes    = "lanes"
	KeySublanes = "sublanes"
)

// PathSegment selects one element of a lane list.
type PathSegment struct {
	Key   string // KeyLanes for the pool's list, KeySublanes below it
	Index int
}

// Path locates a lane inside the LaneSpec tree it was built from.
type Path []PathSegment

// String renders the path as "lanes/1/sublanes/0".
func (p Path) String() string {
	parts := make([]string, 0, 2*len(p))
	for _, s := range p {
		parts = append(parts, s.Key, strconv.Itoa(s.Index))
	}
	return strings.Join(parts, "/")
}

// MarshalJSON encodes the path as an alternating key/index array, e.g.
// ["lanes", 1, "sublanes", 0].
func (p Path) MarshalJSON() ([]byte, error) {
	flat := make([]any, 0, 2*len(p))
	for _, s := range p {
		flat = append(flat, s.Key, s.Index)
	}
	return json.Marshal(flat)
}

// UnmarshalJSON decodes the alternating key/index form written by MarshalJSON.
func (p *Path) UnmarshalJSON(data []byte) error {
	var flat []any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	if len(flat)%2 != 0 {
		return fmt.Errorf("path: odd number of elements (%d)", len(flat))
	}
	out := make(Path, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		key, ok := flat[i].(string)
		if !ok {
			return fmt.Errorf("path: element %d: want key, got %v", i, flat[i])
		}
		idx, ok := flat[i+1].(float64)
		if !ok || idx != float64(int(idx)) {
			return fmt.Errorf("path: element %d: want index, got %v", i+1, flat[i+1])
		}
		out = append(out, PathSegment{Key: key, Index: int(idx)})
	}
	*p = out
	return nil
}

// Resolve walks lanes along p and returns the addressed node. The pointer
// refers into lanes, so editors can change the node in place and hand the
// slice back to [Pool.SetLanes].
func (p Path) Resolve(lanes []LaneSpec) (*LaneSpec, bool) {
	if len(p) == 0 {
		return nil, false
	}
	var node *LaneSpec
	cur := lanes
	for i, s := range p {
		want := KeySublanes
		if i == 0 {
			want = KeyLanes
		}
		if s.Key != want || s.Index < 0 || s.Index >= len(cur) {
			return nil, false
		}
		node = &cur[s.Index]
		cur = node.Sublanes
	}
	return node, true
}

func (r resolver) lanePath(pid string) Path {
	var rev Path
	for cur, ok := r.reg.lanes[pid]; ok; cur, ok = r.reg.lanes[cur.ParentID] {
		key := KeySublanes
		if cur.IsTopLevel() {
			key = KeyLanes
		}
		rev = append(rev, PathSegment{Key: key, Index: cur.Index})
	}
	path := make(Path, len(rev))
	for i, s := range rev {
		path[len(rev)-1-i] = s
	}
	return path
}
