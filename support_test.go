package backendapi

import (
	"sync"
	"time"
)

// recordingLogger captures log lines by level for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	lines []recordedLine
}

type recordedLine struct {
	level string
	msg   string
	kv    []any
}

func (l *recordingLogger) record(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, recordedLine{level: level, msg: msg, kv: kv})
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.record("DEBUG", msg, kv) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.record("INFO", msg, kv) }
func (l *recordingLogger) Warn(msg string, kv ...any)  { l.record("WARN", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.record("ERROR", msg, kv) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) hasMessage(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line.level == level && line.msg == msg {
			return true
		}
	}
	return false
}

// recordingNotifier captures spinner transitions and messages.
type recordingNotifier struct {
	mu       sync.Mutex
	shows    int
	hides    int
	masks    []bool
	messages []string
}

func (n *recordingNotifier) ShowLoading(mask bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shows++
	n.masks = append(n.masks, mask)
}

func (n *recordingNotifier) HideLoading() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hides++
}

func (n *recordingNotifier) ShowMessage(text string, duration time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *recordingNotifier) snapshot() (shows, hides int, messages []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shows, n.hides, append([]string(nil), n.messages...)
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
