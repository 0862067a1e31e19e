// =============================================================================
// Quotation Generator - History Store
// =============================================================================
//
// The history is the list of the last submitted quotations, newest first,
// capped at MaxEntries. It is stored as one JSON array under StorageKey and
// rewritten in full on every change.
//
// OPERATIONS:
//   - Save:   prepend a timestamped copy, truncate, persist
//   - Load:   return one entry for the caller to install as the working doc
//   - Import: prepend entries not already present, truncate, persist
//
// =============================================================================

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/quotegen/internal/types"
)

const (
	// StorageKey is the backend key holding the history list.
	StorageKey = "quotation"

	// MaxEntries is the history cap.
	MaxEntries = 5

	// TimestampLayout is the createdAt format (ISO-8601, UTC, milliseconds).
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

var (
	// ErrCorrupt indicates the persisted history cannot be decoded.
	ErrCorrupt = errors.New("stored history is corrupt")

	// ErrNoEntry indicates a history position that does not exist.
	ErrNoEntry = errors.New("no history entry at that position")
)

// Store is the history service.
type Store struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore returns a Store on backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// List returns the stored entries, newest first. An absent record is an
// empty history.
func (s *Store) List(ctx context.Context) ([]types.HistoryEntry, error) {
	data, ok, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || len(data) == 0 {
		return []types.HistoryEntry{}, nil
	}

	var entries []types.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	return entries, nil
}

// Save archives a copy of doc with createdAt set to now.
//
// RETURNS:
//   - The stored entry.
//   - An error if the history cannot be read or written. The stored list is
//     unchanged on error.
func (s *Store) Save(ctx context.Context, doc types.Document) (types.HistoryEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return types.HistoryEntry{}, err
	}

	entry := doc.Clone()
	entry.CreatedAt = s.now().UTC().Format(TimestampLayout)

	entries = truncate(append([]types.HistoryEntry{entry}, entries...))
	if err := s.persist(ctx, entries); err != nil {
		return types.HistoryEntry{}, err
	}

	s.logger.Info("history.save.ok",
		slog.String("created_at", entry.CreatedAt),
		slog.Int("entries", len(entries)),
	)
	return entry, nil
}

// Load returns a copy of the entry at index.
func (s *Store) Load(ctx context.Context, index int) (types.HistoryEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return types.HistoryEntry{}, err
	}
	if index < 0 || index >= len(entries) {
		return types.HistoryEntry{}, fmt.Errorf("%w: %d (history has %d)", ErrNoEntry, index, len(entries))
	}
	return entries[index].Clone(), nil
}

// Import merges entries into the history.
//
// MERGE RULES:
//   - An entry structurally equal to an already stored entry is skipped
//   - Novel entries are prepended in their given order
//   - The merged list is truncated to MaxEntries
//
// RETURNS:
//   - The number of novel entries. Zero means nothing was written.
func (s *Store) Import(ctx context.Context, incoming []types.HistoryEntry) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[string(e.Canonical())] = struct{}{}
	}

	novel := make([]types.HistoryEntry, 0, len(incoming))
	for _, e := range incoming {
		if _, dup := seen[string(e.Canonical())]; dup {
			continue
		}
		novel = append(novel, e.Clone())
	}

	if len(novel) == 0 {
		s.logger.Debug("history.import.none", slog.Int("offered", len(incoming)))
		return 0, nil
	}

	merged := truncate(append(novel, existing...))
	if err := s.persist(ctx, merged); err != nil {
		return 0, err
	}

	s.logger.Info("history.import.ok",
		slog.Int("imported", len(novel)),
		slog.Int("entries", len(merged)),
	)
	return len(novel), nil
}

func (s *Store) persist(ctx context.Context, entries []types.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.backend.Put(ctx, StorageKey, data); err != nil {
		s.logger.Error("history.persist.failed", slog.Any("error", err))
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func truncate(entries []types.HistoryEntry) []types.HistoryEntry {
	if len(entries) > MaxEntries {
		return entries[:MaxEntries]
	}
	return entries
}
