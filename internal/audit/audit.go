// Package audit records project lifecycle events.
// Events are stored as JSON Lines (JSONL) files, one per project.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventActivate   EventType = "activate"
	EventDeactivate EventType = "deactivate"
	EventCheck      EventType = "check"
	EventRestart    EventType = "restart"
	EventError      EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Project   string    `json:"project"`
	Port      int       `json:"port,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for projects.
// Events are stored in {stateDir}/projects/{name}.events.jsonl.
type Logger struct {
	stateDir string
}

// NewLogger creates a new audit logger rooted at stateDir.
func NewLogger(stateDir string) *Logger {
	return &Logger{stateDir: stateDir}
}

// NewOperationID returns an identifier grouping the events of one command.
func NewOperationID() string {
	return uuid.NewString()
}

func (l *Logger) eventPath(project string) string {
	return filepath.Join(l.stateDir, "projects", project+".events.jsonl")
}

// Log appends an event to the project's audit log.
func (l *Logger) Log(event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Project)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, project string, port int, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Project:   project,
		Port:      port,
		Details:   details,
	})
}

// Events reads all events for a project in chronological order.
func (l *Logger) Events(project string) ([]Event, error) {
	f, err := os.Open(l.eventPath(project))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Remove deletes the audit log for a project.
func (l *Logger) Remove(project string) error {
	if err := os.Remove(l.eventPath(project)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
