package thicket

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDebug routes debug output into a buffer and enables debug checks for
// the duration of the test.
func captureDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetDebugLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	globalDebug = true
	t.Cleanup(func() {
		SetDebugLogger(nil)
		globalDebug = false
	})
	return &buf
}

func TestDebugDisposedNodePanics(t *testing.T) {
	captureDebug(t)
	parent := NewGroup("parent")
	child := NewSprite("child", nil)
	child.Dispose()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic for disposed child")
		assert.Contains(t, r, `disposed node "child"`)
	}()
	parent.AddChild(child)
}

func TestDebugDisposedNodeIgnoredOutsideDebug(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	child.Dispose()
	// Without debug mode the disposed node is simply attached.
	parent.AddChild(child)
	assert.Equal(t, 1, parent.NumChildren())
}

func TestDebugTreeDepthWarning(t *testing.T) {
	buf := captureDebug(t)
	n := NewGroup("root")
	for range debugMaxTreeDepth {
		child := NewGroup("deep")
		n.AddChild(child)
		n = child
	}
	assert.Contains(t, buf.String(), "tree depth exceeds threshold")
}

func TestDebugChildCountWarning(t *testing.T) {
	buf := captureDebug(t)
	g := NewGroup("wide")
	for range debugMaxChildCount {
		g.AddChild(NewSprite("s", nil))
	}
	assert.Empty(t, buf.String())

	g.AddChild(NewSprite("s", nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "child count exceeds threshold"))
}

func TestDebugFrameLog(t *testing.T) {
	buf := captureDebug(t)
	s := NewScene()
	s.SetDebugMode(true)
	s.AutoSort = AutoSort{Enabled: true, Key: "z", Recursive: true}
	s.Root().AddChild(leafZ("a", 1))
	s.Root().AddChild(leafZ("b", 0))

	require.NoError(t, s.Update())
	s.Draw(ebiten.NewImage(8, 8))

	out := buf.String()
	assert.Contains(t, out, "frame")
	assert.Contains(t, out, "sprites=2")
	assert.Contains(t, out, "cache=true")
}
