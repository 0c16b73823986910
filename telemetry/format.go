package telemetry

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// slowOperation is the duration from which an operation is highlighted and
// its throughput reported.
const slowOperation = 100 * time.Millisecond

// formatTimingTree outputs the timing tree in a hierarchical format.
// Example output:
//
//	format: 1.25s
//	├─ parse data.csv: 850ms (1,240,800 records, 1,459,764 records/s)
//	└─ print: 400ms (1,240,800 records, 3,102,000 records/s)
func formatTimingTree(w io.Writer, root *timerNode, styles Styler) {
	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s%s\n", name, formatTiming(root, styles), formatNodeCounts(root, styles))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

// formatNode recursively formats a node and its children.
func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles Styler) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	treeChars := prefix + branch
	if styles != nil {
		treeChars = styles.Dim(treeChars)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s%s\n", treeChars, node.name, formatTiming(node, styles), formatNodeCounts(node, styles))

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

func formatTiming(node *timerNode, styles Styler) string {
	timing := formatDuration(node.duration())
	if styles == nil || node.parent == nil {
		return timing
	}
	if node.duration() >= slowOperation {
		return styles.Warning(timing)
	}
	return styles.Dim(timing)
}

func formatNodeCounts(node *timerNode, styles Styler) string {
	counts := formatCounts(node.counts, node.duration())
	if counts != "" && styles != nil {
		counts = styles.Count(counts)
	}
	return counts
}

// formatDuration formats a duration for display.
// Shows milliseconds for < 1s, seconds for >= 1s.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%.0fms", ms)
	}
	s := float64(d) / float64(time.Second)
	return fmt.Sprintf("%.2fs", s)
}

// formatCounts renders counters as " (1,024 records, 3 comments)". Slow
// operations also get the rate of their first counter.
func formatCounts(counts []count, d time.Duration) string {
	if len(counts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(counts)+1)
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(c.n), c.unit))
	}
	if d >= slowOperation {
		rate := int64(float64(counts[0].n) / d.Seconds())
		parts = append(parts, fmt.Sprintf("%s %s/s", humanize.Comma(rate), counts[0].unit))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
