package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params NameParams
		want   string
	}{
		{
			name:   "named with start date",
			params: NameParams{QuotationName: "官網改版", StartDate: "2024-03-01", Ext: "json"},
			want:   "官網改版_2024-03-01.json",
		},
		{
			name:   "named without start date",
			params: NameParams{QuotationName: "官網改版", Ext: "pdf"},
			want:   "官網改版_2024-03-09.pdf",
		},
		{
			name:   "named all data",
			params: NameParams{QuotationName: "官網改版", StartDate: "2024-03-01", AllData: true, Ext: "json"},
			want:   "官網改版_完整資料_2024-03-01.json",
		},
		{
			name:   "unnamed",
			params: NameParams{Ext: "jpg"},
			want:   "2024-3-9_quotation.jpg",
		},
		{
			name:   "unnamed all data",
			params: NameParams{AllData: true, Ext: ".json"},
			want:   "2024-3-9_quotation_完整資料.json",
		},
		{
			name:   "separators in name",
			params: NameParams{QuotationName: "A/B\\C", StartDate: "2024-03-01", Ext: "xlsx"},
			want:   "A-B-C_2024-03-01.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Now = now
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.params))
		})
	}
}

func TestLocaleDate(t *testing.T) {
	assert.Equal(t, "2024/12/31", LocaleDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")

	err := WriteFileAtomic(path, []byte("x"), 0o644)
	require.Error(t, err)
	assert.False(t, FileExists(path))
}

func TestFileManager_Write(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "exports"))

	path, err := fm.Write("a.json", []byte("{}"))
	require.NoError(t, err)
	assert.True(t, FileExists(path))
	assert.Equal(t, filepath.Join(fm.OutputDir, "a.json"), path)
}
