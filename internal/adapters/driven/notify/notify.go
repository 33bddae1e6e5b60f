// Package notify delivers service notifications to the terminal.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// Level classifies a notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notification is one message emitted by a service.
type Notification struct {
	Level   Level
	Message string
}

// Ensure implementations satisfy the interface.
var (
	_ driven.Notifier = (*WriterNotifier)(nil)
	_ driven.Notifier = (*ChannelNotifier)(nil)
)

// WriterNotifier prints notifications as lines, errors to a separate stream.
type WriterNotifier struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	quiet bool
}

// NewWriterNotifier creates a notifier writing to out and errOut.
func NewWriterNotifier(out, errOut io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out, err: errOut}
}

// SetQuiet suppresses success and info lines. Errors are always written.
func (n *WriterNotifier) SetQuiet(quiet bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quiet = quiet
}

// Success writes a success line.
func (n *WriterNotifier) Success(msg string) {
	n.write(LevelSuccess, msg)
}

// Info writes an informational line.
func (n *WriterNotifier) Info(msg string) {
	n.write(LevelInfo, msg)
}

// Error writes an error line.
func (n *WriterNotifier) Error(msg string) {
	n.write(LevelError, msg)
}

func (n *WriterNotifier) write(level Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch level {
	case LevelError:
		_, _ = fmt.Fprintf(n.err, "✗ %s\n", msg)
	case LevelSuccess:
		if !n.quiet {
			_, _ = fmt.Fprintf(n.out, "✓ %s\n", msg)
		}
	default:
		if !n.quiet {
			_, _ = fmt.Fprintf(n.out, "%s\n", msg)
		}
	}
}

// ChannelNotifier forwards notifications to a buffered channel.
// Sends never block; when the buffer is full the oldest message is dropped.
type ChannelNotifier struct {
	ch chan Notification
}

// NewChannelNotifier creates a notifier with the given buffer size.
func NewChannelNotifier(size int) *ChannelNotifier {
	if size < 1 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan Notification, size)}
}

// C returns the receive side of the channel.
func (n *ChannelNotifier) C() <-chan Notification {
	return n.ch
}

// Success queues a success notification.
func (n *ChannelNotifier) Success(msg string) {
	n.send(Notification{Level: LevelSuccess, Message: msg})
}

// Info queues an informational notification.
func (n *ChannelNotifier) Info(msg string) {
	n.send(Notification{Level: LevelInfo, Message: msg})
}

// Error queues an error notification.
func (n *ChannelNotifier) Error(msg string) {
	n.send(Notification{Level: LevelError, Message: msg})
}

func (n *ChannelNotifier) send(note Notification) {
	for {
		select {
		case n.ch <- note:
			return
		default:
		}
		// Full: drop the oldest and retry.
		select {
		case <-n.ch:
		default:
		}
	}
}
