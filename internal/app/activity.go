package app

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Activity appends timestamped lines to the activity log so users can
// inspect what a run did after the fact. Each line is
// "<timestamp> - <message>".
type Activity struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// OpenActivity creates (or reuses) the append-only activity log at path.
func OpenActivity(path string) (*Activity, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	return &Activity{file: f, now: time.Now}, nil
}

// Log writes a single timestamped line. Safe for concurrent use.
func (a *Activity) Log(format string, args ...any) {
	if a == nil || a.file == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.file, "%s - %s\n", a.now().Format("2006-01-02 15:04:05"), line)
}

// Close releases the file handle.
func (a *Activity) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	return a.file.Close()
}

// LogNotifier implements ports.Notifier by recording notifications in the
// activity log. Delivery to an external address is deliberately out of
// scope; this keeps the notification path best-effort and never failing.
type LogNotifier struct {
	Activity *Activity
}

// Notify records the message. Never fails the run.
func (n LogNotifier) Notify(message string) {
	n.Activity.Log("notification: %s", message)
}
