package devverse

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// globalDebug enables tree sanity checks on every scene mutation.
var globalDebug bool

// SetDebugChecks toggles panics on disposed-node use and tree depth warnings.
func SetDebugChecks(on bool) {
	globalDebug = on
}

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene debug mode is on.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	nodeCount  int
	drawCount  int
}

// debugLogEvery is the number of frames between stats lines.
const debugLogEvery = 120

// debugLog logs timing and draw stats every debugLogEvery frames.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.debugFrames++
	if s.debugFrames%debugLogEvery != 0 {
		return
	}
	s.logger.Debug("frame stats",
		zap.Duration("update", stats.updateTime),
		zap.Duration("draw", stats.drawTime),
		zap.Int("nodes", stats.nodeCount),
		zap.Int("draws", stats.drawCount))
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when debug checks are on.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("devverse debug: %s on disposed node %q", op, n.Name))
	}
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth panics when the tree gets deeper than any page needs,
// which usually means nodes are being re-parented in a loop.
func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		panic(fmt.Sprintf("devverse debug: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.Name))
	}
}

// countNodes counts n and its descendants.
func countNodes(n *Node) int {
	c := 1
	for _, child := range n.children {
		c += countNodes(child)
	}
	return c
}
