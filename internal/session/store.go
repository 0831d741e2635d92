package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nao1215/corpscope/internal/model"
)

// Entry names used by corpscope.
const (
	// KeyAPIKeys holds the stored Cohere/Tavily key pair.
	KeyAPIKeys = "apiKeys"

	// KeyCurrentReport holds the most recently generated ReportData.
	KeyCurrentReport = "currentReport"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("session entry not found")

// Store is a string-keyed store of raw JSON values.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// SaveKeys stores the key pair under KeyAPIKeys.
func SaveKeys(ctx context.Context, s Store, keys model.StoredKeys) error {
	raw, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal api keys: %w", err)
	}
	if err := s.Set(ctx, KeyAPIKeys, raw); err != nil {
		return fmt.Errorf("failed to save api keys: %w", err)
	}
	return nil
}

// LoadKeys reads the key pair. A missing entry yields empty StoredKeys and no
// error.
func LoadKeys(ctx context.Context, s Store) (model.StoredKeys, error) {
	raw, err := s.Get(ctx, KeyAPIKeys)
	if errors.Is(err, ErrNotFound) {
		return model.StoredKeys{}, nil
	}
	if err != nil {
		return model.StoredKeys{}, fmt.Errorf("failed to load api keys: %w", err)
	}

	var keys model.StoredKeys
	if err := json.Unmarshal(raw, &keys); err != nil {
		return model.StoredKeys{}, fmt.Errorf("failed to decode api keys: %w", err)
	}
	return keys, nil
}

// SaveReport stores data under KeyCurrentReport.
func SaveReport(ctx context.Context, s Store, data *model.ReportData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := s.Set(ctx, KeyCurrentReport, raw); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadReport reads the current report, or returns ErrNotFound.
func LoadReport(ctx context.Context, s Store) (*model.ReportData, error) {
	raw, err := s.Get(ctx, KeyCurrentReport)
	if err != nil {
		return nil, err
	}

	var data model.ReportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &data, nil
}
