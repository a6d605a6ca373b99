package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aiuniverse/universe/internal/entity/web"
)

// State is what survives between runs of the client.
type State struct {
	Session *web.SessionData `json:"session,omitempty"`
	Theme   Theme            `json:"theme,omitempty"`
}

type Persister interface {
	Load() (State, error)
	Update(fn func(state *State)) error
}

// FilePersister keeps State as one JSON file, rewritten whole on every update.
type FilePersister struct {
	path string
	mu   sync.Mutex
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{
		path: path,
	}
}

// DefaultStatePath returns $XDG_CONFIG_HOME/aiu/state.json.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aiu", "state.json"), nil
}

func (p *FilePersister) load() (State, error) {
	var state State
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse %s: %w", p.path, err)
	}
	return state, nil
}

func (p *FilePersister) Load() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

func (p *FilePersister) Update(fn func(state *State)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, err := p.load()
	if err != nil {
		// A broken file is replaced rather than blocking every save.
		state = State{}
	}
	fn(&state)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
