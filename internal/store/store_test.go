package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "store"))
	require.NoError(t, err)

	ids, err := s.Order("notes")
	require.NoError(t, err)
	assert.Nil(t, ids)

	require.NoError(t, s.SaveOrder("notes", []string{"c", "a", "b"}))
	require.NoError(t, s.SaveOrder("my-list", nil))

	ids, err = s.Order("notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	ids, err = s.Order("my-list")
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.Equal(t, []string{"my-list", "notes"}, s.Names(context.Background()))

	require.NoError(t, s.Delete("notes"))
	require.NoError(t, s.Delete("notes"))
	assert.Equal(t, []string{"my-list"}, s.Names(context.Background()))
}

func TestOrderSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveOrder("notes", []string{"b", "a"}))

	reopened, err := Open(dir)
	require.NoError(t, err)
	ids, err := reopened.Order("notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ")
	assert.Error(t, err)
}

func TestEmptyNameIsRejected(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, s.SaveOrder("", []string{"a"}))
	_, err = s.Order("")
	assert.Error(t, err)
}

func TestArrange(t *testing.T) {
	items := []string{"A", "B", "C", "D", "E"}
	id := strings.ToLower

	got := Arrange(items, id, []string{"d", "x", "b", "d"})
	assert.Equal(t, []string{"D", "B", "A", "C", "E"}, got)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, items, "input untouched")

	assert.Equal(t, items, Arrange(items, id, nil))
}
