// Package notify reports operation outcomes to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier receives one message per completed operation.
type Notifier interface {
	ReportSuccess(message string)
	ReportError(message string)
}

// Level distinguishes success from error messages.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is a single recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Func adapts a function to Notifier.
type Func func(level Level, message string)

func (f Func) ReportSuccess(message string) { f(LevelSuccess, message) }
func (f Func) ReportError(message string)   { f(LevelError, message) }

// Nop discards every message.
type Nop struct{}

func (Nop) ReportSuccess(string) {}
func (Nop) ReportError(string)   {}

// Log writes messages to a zerolog logger, successes at info and errors at
// error level.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) ReportSuccess(message string) {
	l.Logger.Info().Str("outcome", string(LevelSuccess)).Msg(message)
}

func (l Log) ReportError(message string) {
	l.Logger.Error().Str("outcome", string(LevelError)).Msg(message)
}

// Writer prints one line per message to W.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{W: w} }

func (w *Writer) ReportSuccess(message string) { w.write("OK", message) }
func (w *Writer) ReportError(message string)   { w.write("ERROR", message) }

func (w *Writer) write(prefix, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.W, "%s: %s\n", prefix, message)
}

// Recorder keeps every message in memory. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) ReportSuccess(message string) { r.add(LevelSuccess, message) }
func (r *Recorder) ReportError(message string)   { r.add(LevelError, message) }

func (r *Recorder) add(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: text})
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Reset drops every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

// Multi fans messages out to several notifiers.
type Multi []Notifier

func (m Multi) ReportSuccess(message string) {
	for _, n := range m {
		if n != nil {
			n.ReportSuccess(message)
		}
	}
}

func (m Multi) ReportError(message string) {
	for _, n := range m {
		if n != nil {
			n.ReportError(message)
		}
	}
}
