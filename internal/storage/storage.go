package storage

import (
	"time"

	"jtl/internal/config"
	"jtl/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer).
type Storage interface {
	Save(results []domain.CaseResult, duration time.Duration) error
	Load() (*domain.RunOutput, error)
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
