package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterNotifier(t *testing.T) {
	var out, errOut bytes.Buffer
	n := NewWriterNotifier(&out, &errOut)

	n.Success("Source \"s1\" saved successfully.")
	n.Info("No changes to save.")
	n.Error("Failed to delete source")

	assert.Equal(t, "✓ Source \"s1\" saved successfully.\nNo changes to save.\n", out.String())
	assert.Equal(t, "✗ Failed to delete source\n", errOut.String())
}

func TestWriterNotifier_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	n := NewWriterNotifier(&out, &errOut)
	n.SetQuiet(true)

	n.Success("ok")
	n.Info("info")
	n.Error("bad")

	assert.Empty(t, out.String())
	assert.Equal(t, "✗ bad\n", errOut.String())
}

func TestChannelNotifier_Order(t *testing.T) {
	n := NewChannelNotifier(4)

	n.Success("a")
	n.Info("b")
	n.Error("c")

	assert.Equal(t, Notification{LevelSuccess, "a"}, <-n.C())
	assert.Equal(t, Notification{LevelInfo, "b"}, <-n.C())
	assert.Equal(t, Notification{LevelError, "c"}, <-n.C())
}

func TestChannelNotifier_DropsOldestWhenFull(t *testing.T) {
	n := NewChannelNotifier(2)

	n.Info("1")
	n.Info("2")
	n.Info("3")

	require.Len(t, n.C(), 2)
	assert.Equal(t, "2", (<-n.C()).Message)
	assert.Equal(t, "3", (<-n.C()).Message)
}

func TestChannelNotifier_Concurrent(t *testing.T) {
	n := NewChannelNotifier(8)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Info("x")
		}()
	}
	wg.Wait()

	assert.Len(t, n.C(), 8)
}

func TestNewChannelNotifier_MinimumSize(t *testing.T) {
	n := NewChannelNotifier(0)
	n.Info("only")

	assert.Equal(t, 1, cap(n.C()))
}

func TestRelay(t *testing.T) {
	first := NewChannelNotifier(4)
	second := NewChannelNotifier(4)
	r := NewRelay(first)

	r.Info("one")
	prev := r.Use(second)
	r.Error("two")

	assert.Equal(t, first, prev)
	assert.Equal(t, "one", (<-first.C()).Message)
	assert.Equal(t, Notification{LevelError, "two"}, <-second.C())
	assert.Len(t, first.C(), 0)
}

func TestRelay_NilTarget(t *testing.T) {
	r := NewRelay(nil)

	assert.NotPanics(t, func() {
		r.Success("ignored")
		r.Info("ignored")
		r.Error("ignored")
	})
}
