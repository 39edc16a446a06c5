package thicket

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// debugLogger receives debug-mode warnings and per-frame stats.
var debugLogger = newDebugLogger()

func newDebugLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "thicket",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.DebugLevel,
	})
}

// SetDebugLogger replaces the logger used in debug mode. Passing nil
// restores the default stderr logger.
func SetDebugLogger(l *log.Logger) {
	if l == nil {
		l = newDebugLogger()
	}
	debugLogger = l
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	sortTime   time.Duration
	renderTime time.Duration
	sortKey    string
	fromCache  bool
	draw       RenderStats
}

// debugLog reports one frame's stats.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	debugLogger.Debug("frame",
		"sort", stats.sortTime,
		"render", stats.renderTime,
		"key", stats.sortKey,
		"cache", stats.fromCache,
		"sprites", stats.draw.Sprites,
		"drawCalls", stats.draw.DrawCalls,
		"batches", stats.draw.Batches,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("thicket debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the nesting depth above which AddChild warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count above which AddChild warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
