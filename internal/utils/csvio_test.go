package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,4\n"), 0644))

	header, records, err := ReadCSVTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, records)
}

func TestReadCSVTableBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	header, records, err := ReadCSVTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)
	assert.Len(t, records, 1)
}

func TestReadCSVTableEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	header, records, err := ReadCSVTable(path)
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Nil(t, records)
}
