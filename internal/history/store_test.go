package history

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/quotegen/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 9, 6, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newTestStore(b Backend) *Store {
	return NewStore(b, WithClock(fixedClock()), WithLogger(discardLogger()))
}

func doc(name string) types.Document {
	d := types.NewDocument()
	d.QuotationName = name
	d.Company = "客戶 " + name
	return d
}

func names(entries []types.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.QuotationName
	}
	return out
}

func TestStore_SaveStampsAndPrepends(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	entry, err := s.Save(ctx, doc("A"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09T06:01:00.000Z", entry.CreatedAt)

	_, err = s.Save(ctx, doc("B"))
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(entries))
}

func TestStore_SaveCapsAtFive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		_, err := s.Save(ctx, doc(n))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "5", "4", "3", "2"}, names(entries))
}

func TestStore_SaveDoesNotAliasCaller(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	d := doc("A")
	_, err := s.Save(ctx, d)
	require.NoError(t, err)

	d.ServiceItems[0].Item = "changed"
	entry, err := s.Load(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entry.ServiceItems[0].Item)
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	_, err := s.Save(ctx, doc("A"))
	require.NoError(t, err)

	entry, err := s.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "A", entry.QuotationName)

	_, err = s.Load(ctx, 1)
	assert.ErrorIs(t, err, ErrNoEntry)
	_, err = s.Load(ctx, -1)
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestStore_ImportDeduplicatesAndCaps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	var saved []types.HistoryEntry
	for _, n := range []string{"A", "B", "C"} {
		e, err := s.Save(ctx, doc(n))
		require.NoError(t, err)
		saved = append(saved, e)
	}

	incoming := []types.HistoryEntry{doc("X"), saved[1], doc("Y"), doc("Z")}
	n, err := s.Import(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z", "C", "B"}, names(entries))
}

func TestStore_ImportNothingNew(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	s := newTestStore(b)

	e, err := s.Save(ctx, doc("A"))
	require.NoError(t, err)
	before, _, _ := b.Get(ctx, StorageKey)

	n, err := s.Import(ctx, []types.HistoryEntry{e})
	require.NoError(t, err)
	assert.Zero(t, n)

	after, _, _ := b.Get(ctx, StorageKey)
	assert.Equal(t, before, after)
}

func TestStore_ImportNilItemsEqualEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(NewMemoryBackend())

	d := doc("A")
	d.ServiceItems = []types.LineItem{}
	e, err := s.Save(ctx, d)
	require.NoError(t, err)

	e.ServiceItems = nil
	n, err := s.Import(ctx, []types.HistoryEntry{e})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Put(ctx, StorageKey, []byte("{not json")))
	s := newTestStore(b)

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = s.Save(ctx, doc("A"))
	assert.ErrorIs(t, err, ErrCorrupt)

	raw, _, _ := b.Get(ctx, StorageKey)
	assert.Equal(t, "{not json", string(raw), "corrupt record must not be overwritten")
}

func TestStore_Backends(t *testing.T) {
	ctx := context.Background()

	backends := map[string]func(t *testing.T) Backend{
		"file": func(t *testing.T) Backend {
			b, err := NewFileBackend(filepath.Join(t.TempDir(), "history"))
			require.NoError(t, err)
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := NewSQLiteBackend(ctx, filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			return b
		},
		"memory": func(t *testing.T) Backend {
			return NewMemoryBackend()
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			s := newTestStore(b)
			defer s.Close()

			entries, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, entries)

			for _, n := range []string{"A", "B"} {
				_, err := s.Save(ctx, doc(n))
				require.NoError(t, err)
			}

			reopened := newTestStore(b)
			entries, err = reopened.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"B", "A"}, names(entries))
		})
	}
}

func TestFileBackend_Layout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, StorageKey, []byte("[]")))

	data, err := os.ReadFile(filepath.Join(dir, "quotation.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLabelIn(t *testing.T) {
	taipei := time.FixedZone("CST", 8*60*60)

	tests := []struct {
		name  string
		entry types.HistoryEntry
		want  string
	}{
		{
			name:  "named with timestamp",
			entry: types.HistoryEntry{QuotationName: "官網", CreatedAt: "2024-03-09T06:05:00.000Z"},
			want:  "官網 (2024/03/09 下午02:05)",
		},
		{
			name:  "morning",
			entry: types.HistoryEntry{QuotationName: "官網", CreatedAt: "2024-03-09T01:30:00.000Z"},
			want:  "官網 (2024/03/09 上午09:30)",
		},
		{
			name:  "named without timestamp",
			entry: types.HistoryEntry{QuotationName: "官網"},
			want:  "官網",
		},
		{
			name:  "unnamed with start date",
			entry: types.HistoryEntry{StartDate: "2024-03-01", Company: "大同"},
			want:  "2024-03-01 - 大同",
		},
		{
			name:  "unnamed without start date",
			entry: types.HistoryEntry{Company: "大同"},
			want:  "未設定日期 - 大同",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelIn(tt.entry, taipei))
		})
	}
}
