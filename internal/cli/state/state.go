package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionState is what the CLI remembers between runs.
type SessionState struct {
	Token string `json:"token,omitempty"`
	// Views maps a view kind (listing, detail, compose) to the last opened view id.
	Views map[string]string `json:"views,omitempty"`
}

// View returns the remembered view id for kind.
func (s *SessionState) View(kind string) string {
	if s.Views == nil {
		return ""
	}
	return s.Views[kind]
}

func (s *SessionState) SetView(kind, id string) {
	if s.Views == nil {
		s.Views = make(map[string]string)
	}
	if id == "" {
		delete(s.Views, kind)
		return
	}
	s.Views[kind] = id
}

func Load(path string) (SessionState, error) {
	var st SessionState
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read session state failed: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse session state failed: %w", err)
	}
	return st, nil
}

func Save(path string, st SessionState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session state dir failed: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session state failed: %w", err)
	}
	return nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session state failed: %w", err)
	}
	return nil
}
