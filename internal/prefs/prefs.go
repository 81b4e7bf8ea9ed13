package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const prefsFileName = "preferences.json"

// DefaultResetTime is the reset time used until the user picks another.
const DefaultResetTime = "08:00"

// Preferences are the client-local settings. They never touch the remote
// store; durability comes from the JSON file underneath.
type Preferences struct {
	DarkMode  bool   `json:"dark_mode"`
	ResetTime string `json:"reset_time"`
}

// Defaults returns the preferences used when nothing was saved yet.
func Defaults() Preferences {
	return Preferences{DarkMode: false, ResetTime: DefaultResetTime}
}

// Store persists preferences to a JSON file in an explicit directory and
// keeps the current value readable from any goroutine.
type Store struct {
	dir string

	mu  sync.Mutex
	cur Preferences
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, cur: Defaults()}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, prefsFileName)
}

// Load reads saved preferences, returning defaults when the file does not
// exist yet. The loaded value becomes the current one.
func (s *Store) Load() (Preferences, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.Current(), nil
		}
		return s.Current(), fmt.Errorf("read preferences: %w", err)
	}

	p := Defaults()
	if err := json.Unmarshal(b, &p); err != nil {
		return s.Current(), fmt.Errorf("parse preferences: %w", err)
	}
	if p.ResetTime == "" {
		p.ResetTime = DefaultResetTime
	}

	s.mu.Lock()
	s.cur = p
	s.mu.Unlock()
	return p, nil
}

// Current returns the last loaded or saved preferences.
func (s *Store) Current() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// ResetTime returns the currently configured HH:MM reset time.
func (s *Store) ResetTime() string {
	return s.Current().ResetTime
}

// Save writes preferences, creating the directory with owner-only
// permissions on first use.
func (s *Store) Save(p Preferences) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}

	s.mu.Lock()
	s.cur = p
	s.mu.Unlock()
	return nil
}
