package observer

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackwatch-io/stackwatch/internal/stack"
	"github.com/stackwatch-io/stackwatch/internal/trigger"
)

// startObserver runs the event loop in the background for one test.
func startObserver(t *testing.T, o *Observer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = o.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)
}

func dirTargetFor(t *testing.T, codeDir string, cb trigger.OnChangeFunc) trigger.WatchTarget {
	t.Helper()
	stacks := []*stack.Stack{{
		Resources: map[string]*stack.Resource{
			"Fn": {
				Type:       stack.TypeServerlessFunction,
				Properties: map[string]any{"CodeUri": codeDir},
			},
		},
	}}
	tr, err := trigger.NewFunctionZipTrigger("Fn", stacks, cb)
	require.NoError(t, err)
	targets := tr.Resolve()
	require.Len(t, targets, 1)
	return targets[0]
}

func TestObserver_DispatchesTreeEvents(t *testing.T) {
	dir := t.TempDir()

	var events atomic.Int32
	target := dirTargetFor(t, dir, func(event *trigger.Event) {
		events.Add(1)
	})

	o, err := New()
	require.NoError(t, err)
	_, err = o.Register(target)
	require.NoError(t, err)

	startObserver(t, o)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	time.Sleep(500 * time.Millisecond)

	assert.Positive(t, events.Load())
}

func TestObserver_ExactFileTargetIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "template.yaml")
	sibling := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("a: 1\n"), 0o644))

	var forwarded atomic.Int32
	tr, err := trigger.NewTemplateTrigger(watched, func(event *trigger.Event) {
		forwarded.Add(1)
	})
	require.NoError(t, err)

	o, err := New()
	require.NoError(t, err)
	_, err = o.Register(tr.Resolve()[0])
	require.NoError(t, err)

	startObserver(t, o)

	require.NoError(t, os.WriteFile(sibling, []byte("scratch"), 0o644))
	time.Sleep(500 * time.Millisecond)
	assert.Zero(t, forwarded.Load(), "sibling files must not trigger the template callback")

	require.NoError(t, os.WriteFile(watched, []byte("a: 2\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), forwarded.Load(), "duplicate write events collapse through the validator gate")
}

func TestObserver_UnregisterStopsDispatch(t *testing.T) {
	dir := t.TempDir()

	var events atomic.Int32
	target := dirTargetFor(t, dir, func(event *trigger.Event) {
		events.Add(1)
	})

	o, err := New()
	require.NoError(t, err)
	handle, err := o.Register(target)
	require.NoError(t, err)

	startObserver(t, o)

	o.Unregister(handle)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("x"), 0o644))
	time.Sleep(500 * time.Millisecond)

	assert.Zero(t, events.Load())
}

func TestObserver_RootCreateInvokesOnCreate(t *testing.T) {
	parent := t.TempDir()
	codeDir := filepath.Join(parent, "src")

	var created atomic.Int32
	var inTree atomic.Int32
	target := dirTargetFor(t, codeDir, nil)
	target.OnCreate = func(event *trigger.Event) { created.Add(1) }
	target.OnEvent = func(event *trigger.Event) { inTree.Add(1) }
	target.OnDelete = nil

	o, err := New()
	require.NoError(t, err)
	_, err = o.Register(target)
	require.NoError(t, err)

	startObserver(t, o)

	// The code directory appears after registration: the parent watch sees it.
	require.NoError(t, os.Mkdir(codeDir, 0o755))
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), created.Load())

	// And the new tree is picked up for in-tree events.
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "main.go"), []byte("x"), 0o644))
	time.Sleep(500 * time.Millisecond)
	assert.Positive(t, inTree.Load())
}

func TestObserver_StaticFolderDeduplication(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	o, err := New()
	require.NoError(t, err)

	outer := dirTargetFor(t, dir, func(event *trigger.Event) {})
	_, err = o.Register(outer)
	require.NoError(t, err)
	watchedBefore := len(o.watched)

	// A static folder nested inside an already-registered one adds no OS
	// watches beyond its parent (which is already covered).
	inner := dirTargetFor(t, sub, func(event *trigger.Event) {})
	_, err = o.Register(inner)
	require.NoError(t, err)

	assert.Equal(t, watchedBefore, len(o.watched))
}
