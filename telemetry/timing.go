package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector collects hierarchical timing data. Timers started with
// Start nest under the timer that is still running; Child nests explicitly.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
	counts   []count
}

// count is a quantity reported for a timed operation.
type count struct {
	unit string
	n    int64
}

func (n *timerNode) duration() time.Duration {
	return n.end.Sub(n.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing an operation. The first timer becomes the root of the
// report.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	if c.root == nil {
		c.root = node
	} else {
		c.attach(c.current, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree to w. Nothing is written before the first
// timer starts.
func (c *TimingCollector) Report(w io.Writer, styles Styler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root, styles)
}

// attach adds node under parent. c.mu must be held.
func (c *TimingCollector) attach(parent, node *timerNode) {
	node.parent = parent
	parent.children = append(parent.children, node)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. Timers started afterwards nest under its parent.
func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	t.node.end = c.now()
	if c.current == t.node && t.node.parent != nil {
		c.current = t.node.parent
	}
}

// Child creates a timer nested under t.
func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	c.attach(t.node, node)

	return &timingTimer{collector: c, node: node}
}

// Count adds n to the counter for unit.
func (t *timingTimer) Count(unit string, n int64) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	for i := range t.node.counts {
		if t.node.counts[i].unit == unit {
			t.node.counts[i].n += n
			return
		}
	}
	t.node.counts = append(t.node.counts, count{unit: unit, n: n})
}
