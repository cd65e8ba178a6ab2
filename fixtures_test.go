package inject

import (
	"errors"

	"github.com/goliatone/go-inject/tree"
)

// countingNode records how often the resolver walks the host tree.
type countingNode struct {
	*tree.Node
	subtreeCalls int
}

func (c *countingNode) ComponentsInSubtree(includeInactive bool) []any {
	c.subtreeCalls++
	return c.Node.ComponentsInSubtree(includeInactive)
}

type Vehicle interface {
	Model() string
}

type Chassis interface {
	Serial() string
}

type car struct {
	model string
}

func (c *car) Model() string  { return c.model }
func (c *car) Serial() string { return "SN-" + c.model }

type wheel struct {
	*Dependent[Vehicle]
	node    Node
	side    string
	vehicle Vehicle

	failDeliver error
	failInit    error
}

func (w *wheel) Node() Node { return w.node }

func (w *wheel) Attributes() map[string]any {
	return map[string]any{"side": w.side}
}

func newWheel(n *tree.Node, side string, events *[]string) *wheel {
	w := &wheel{node: n, side: side}
	w.Dependent = NewDependent(func(v Vehicle) error {
		w.vehicle = v
		*events = append(*events, "deliver:"+n.Name())
		return w.failDeliver
	}, OnAllInitialized(func() error {
		*events = append(*events, "init:"+n.Name())
		return w.failInit
	}))
	n.Attach(w)
	return w
}

type frame struct {
	*Dependent[Chassis]
	serial string
}

func newFrame(n *tree.Node, events *[]string) *frame {
	f := &frame{}
	f.Dependent = NewDependent(func(c Chassis) error {
		f.serial = c.Serial()
		*events = append(*events, "deliver-chassis:"+n.Name())
		return nil
	}, OnAllInitialized(func() error {
		*events = append(*events, "init-chassis:"+n.Name())
		return nil
	}))
	n.Attach(f)
	return f
}

type garage struct {
	root   *countingNode
	car    *car
	wheels map[string]*wheel
	events []string
}

// newGarage builds:
//
//	car (car component)
//	├── front-left  (wheel, id "left-wheel")
//	├── front-right (wheel, id "right-wheel")
//	└── trunk       (inactive)
//	    └── spare   (wheel, id "spare-wheel")
func newGarage() *garage {
	g := &garage{car: &car{model: "roadster"}, wheels: map[string]*wheel{}}
	root := tree.New("car").Attach(g.car)
	frontLeft := tree.New("front-left").Attach(NewIdentifier("left-wheel"))
	frontRight := tree.New("front-right").Attach(NewIdentifier("right-wheel"))
	trunk := tree.New("trunk").SetActive(false)
	spare := tree.New("spare").Attach(NewIdentifier("spare-wheel"))
	trunk.Add(spare)
	root.Add(frontLeft, frontRight, trunk)

	g.wheels["front-left"] = newWheel(frontLeft, "left", &g.events)
	g.wheels["front-right"] = newWheel(frontRight, "right", &g.events)
	g.wheels["spare"] = newWheel(spare, "left", &g.events)
	g.root = &countingNode{Node: root}
	return g
}

var errFlatTire = errors.New("flat tire")
