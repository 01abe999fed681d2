package pool_test

import (
	"fmt"

	"github.com/matzehuels/poolkit/pkg/pool"
)

func Example() {
	p, err := pool.New(
		pool.WithSize(400, 300),
		pool.WithLanes([]pool.LaneSpec{
			{ID: "plan", Size: pool.Fixed(100)},
			{ID: "build", Sublanes: []pool.LaneSpec{
				{Label: "Backend", Size: pool.Fixed(150)},
			}},
			{ID: "ship"},
		}),
	)
	if err != nil {
		panic(err)
	}

	for _, id := range p.LaneIDs() {
		h, _ := p.LaneHeight(id)
		fmt.Printf("%s: %g\n", id, h)
	}
	// Output:
	// plan: 100
	// build: 150
	// 1_0: 150
	// ship: 50
}

func ExamplePool_LanesFromPoint() {
	p, _ := pool.New(
		pool.WithSize(200, 100),
		pool.WithLanes([]pool.LaneSpec{
			{ID: "top"},
			{ID: "bottom", Label: "Bottom", Sublanes: []pool.LaneSpec{{ID: "inner"}}},
		}),
	)

	fmt.Println(p.LanesFromPoint(pool.Point{X: 100, Y: 75}))
	fmt.Println(p.LanesFromPoint(pool.Point{X: 10, Y: 75}))
	// Output:
	// [inner bottom]
	// [bottom]
}

func ExamplePool_LanePath() {
	p, _ := pool.New(pool.WithLanes([]pool.LaneSpec{
		{},
		{Sublanes: []pool.LaneSpec{{}, {ID: "review", Label: "Review"}}},
	}))

	path, _ := p.LanePath("review")
	fmt.Println(path)

	specs := p.LaneSpecs()
	node, _ := path.Resolve(specs)
	node.Label = "Code review"
	if err := p.SetLanes(specs); err != nil {
		panic(err)
	}
	m, _ := p.Registry().Lane("review")
	fmt.Println(m.Label)
	// Output:
	// lanes/1/sublanes/1
	// Code review
}

func ExamplePool_AutoResize() {
	p, _ := pool.New(
		pool.WithSize(10, 10),
		pool.WithPadding(pool.UniformPadding(10)),
		pool.WithLanes([]pool.LaneSpec{
			{Label: "A", Size: pool.Fixed(120)},
			{Size: pool.Fixed(40)},
		}),
	)
	fmt.Printf("%+v\n", p.AutoResize())
	// Output: {Width:50 Height:180}
}
