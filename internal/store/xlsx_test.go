package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilemorph/firewatch/internal/model"
)

func TestWriteReadXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.xlsx")
	want := []model.Incident{testIncident("1"), testIncident("2")}

	require.NoError(t, WriteXLSX(path, want))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteXLSX_EmptyStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incidents.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
