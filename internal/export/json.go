// internal/export/json.go
// Sessions are plain data, so JSON export/import is a straight
// round-trip through encoding/json.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/podsni/symposium/internal/council"
	"github.com/podsni/symposium/internal/debate"
)

// DebateJSON serializes a debate session for file export.
func DebateJSON(s *debate.Session) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// CouncilJSON serializes a council session for file export.
func CouncilJSON(s *council.Session) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// WriteJSON writes serialized session data under baseDir/sessions with a
// YYYY-MM-DD-question.json filename and returns the full path.
func WriteJSON(data []byte, question string, createdAt int64, baseDir string) (string, error) {
	datePart := time.UnixMilli(createdAt).Format("2006-01-02")
	filename := fmt.Sprintf("%s-%s.json", datePart, sanitizeFilename(question))

	dir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create sessions directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// ImportDebate reads a debate session from a JSON file.
func ImportDebate(path string) (*debate.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s debate.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse debate session %s: %w", path, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("debate session %s has no id", path)
	}
	return &s, nil
}

// ImportCouncil reads a council session from a JSON file.
func ImportCouncil(path string) (*council.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s council.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse council session %s: %w", path, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("council session %s has no id", path)
	}
	return &s, nil
}
