// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package notify carries user-facing notifications from the client layer to
// whatever surface is displaying them. Delivery is fire-and-forget.
package notify

import (
	"sync"

	"github.com/toeirei/vaultpass/internal/logging"
)

// Severity tags a notification.
type Severity int

const (
	Success Severity = iota
	Info
	Warning
	Danger
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return "unknown"
	}
}

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to Notifier.
type Func func(message string, severity Severity)

// Notify implements Notifier.
func (f Func) Notify(message string, severity Severity) { f(message, severity) }

// Log writes notifications to the application log.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(message string, severity Severity) {
	switch severity {
	case Danger:
		logging.Errorf("%s", message)
	case Warning:
		logging.Warnf("%s", message)
	default:
		logging.Infof("%s", message)
	}
}

// Message is one recorded notification.
type Message struct {
	Text     string
	Severity Severity
}

// Recorder keeps every notification it receives. It is safe for
// concurrent use.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Notify implements Notifier.
func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	r.msgs = append(r.msgs, Message{Text: message, Severity: severity})
	r.mu.Unlock()
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Reset drops all recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}
