package signupform

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Persister stores the form snapshot so a draft survives a reload. Only the
// draft data and current step are persisted; validation state, in-flight
// flags, and errors are recomputed on load.
type Persister interface {
	Save(raw []byte) error
	Load() ([]byte, error)
}

type snapshot struct {
	Step Step `json:"current_step"`
	Data Data `json:"form_data"`
}

func decodeSnapshot(raw []byte) (*snapshot, error) {
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if s.Step < 0 || s.Step >= StepCount {
		s.Step = StepPersonal
	}
	return &s, nil
}

// Snapshot returns the persistable portion of the machine state.
func (m *Machine) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Step: m.step, Data: m.data})
}

// persist writes the snapshot best-effort; a storage hiccup must never block
// form interaction.
func (m *Machine) persist() {
	if m.store == nil {
		return
	}
	raw, err := m.Snapshot()
	if err != nil {
		return
	}
	_ = m.store.Save(raw)
}

// FilePersister keeps the snapshot in a local file, the CLI/desktop analog
// of browser local storage.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

func (p *FilePersister) Save(raw []byte) error {
	return os.WriteFile(p.Path, raw, 0o600)
}

func (p *FilePersister) Load() ([]byte, error) {
	raw, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return raw, err
}
