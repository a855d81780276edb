package storage

import (
	"errors"

	"bctp/internal/config"
	"bctp/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(output *domain.TestResultsOutput) error
	Load() (*domain.TestResultsOutput, error)
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Multi saves to every backend and loads from the first one.
type Multi struct {
	backends []Storage
}

// NewMulti combines backends; nil backends are ignored.
func NewMulti(backends ...Storage) *Multi {
	m := &Multi{}
	for _, b := range backends {
		if b != nil {
			m.backends = append(m.backends, b)
		}
	}
	return m
}

// Save writes the output to all backends and joins their errors.
func (m *Multi) Save(output *domain.TestResultsOutput) error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Save(output); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load reads from the primary backend.
func (m *Multi) Load() (*domain.TestResultsOutput, error) {
	if len(m.backends) == 0 {
		return nil, errors.New("no storage configured")
	}
	return m.backends[0].Load()
}
