// internal/events/events.go
// Fire-and-forget session lifecycle events for external observers.
// Delivery is best-effort over HTTP; a missing listener never affects a
// running session.
package events

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Event types emitted by the orchestration engines.
const (
	EventSessionStarted   = "session_started"
	EventRoundCompleted   = "round_completed"
	EventConsensusReached = "consensus_reached"
	EventStageCompleted   = "stage_completed"
	EventSessionPaused    = "session_paused"
	EventSessionResumed   = "session_resumed"
	EventSessionStopped   = "session_stopped"
	EventSessionCompleted = "session_completed"
	EventSessionFailed    = "session_failed"
)

// ProgressFunc is the synchronous progress callback contract exposed by
// both engines: invoked zero or more times per run, in stage order.
// Implementations must not panic; the engines do not guard it.
type ProgressFunc func(stage string, payload map[string]string)

// Event is the wire payload for the HTTP emitter.
type Event struct {
	Type      string            `json:"type"`
	Source    string            `json:"source"`
	Timestamp int64             `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

// Emitter posts events to a configured endpoint, fire and forget.
type Emitter struct {
	endpoint   string
	httpClient *http.Client
	enabled    bool
}

// NewEmitter creates an emitter. An empty endpoint disables emission.
func NewEmitter(endpoint string) *Emitter {
	return &Emitter{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 2 * time.Second, // short timeout for fire-and-forget
		},
		enabled: endpoint != "",
	}
}

// SetEnabled enables or disables event emission.
func (e *Emitter) SetEnabled(enabled bool) {
	e.enabled = enabled && e.endpoint != ""
}

// Emit sends an event asynchronously. Never blocks the caller.
func (e *Emitter) Emit(eventType string, data map[string]string) {
	if !e.enabled {
		return
	}

	event := Event{
		Type:      eventType,
		Source:    "symposium",
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}

	go e.send(event)
}

func (e *Emitter) send(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[events] failed to marshal event: %v", err)
		return
	}

	resp, err := e.httpClient.Post(e.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		// Connection failures are expected when no listener is running.
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[events] event rejected with status %d", resp.StatusCode)
	}
}

// Progress adapts the emitter into a ProgressFunc so a session can be
// observed remotely with no extra wiring.
func (e *Emitter) Progress(sessionID string) ProgressFunc {
	return func(stage string, payload map[string]string) {
		data := map[string]string{"session_id": sessionID, "stage": stage}
		for k, v := range payload {
			data[k] = v
		}
		e.Emit(stage, data)
	}
}

// Truncate limits a string to maxLen characters for event payloads.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
