package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tariqve/mashd/internal/knot"
)

func newTestStore(t *testing.T) (*Store, *KnotRepo) {
	t.Helper()
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewKnotRepo(db)
	s, err := New(context.Background(), repo)
	require.NoError(t, err)
	return s, repo
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "knots.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must treat "no change" as success.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM knots`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestNewStoreStartsEmptyWithPanelOpen(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Knots())
	assert.Equal(t, "", s.Selected())
	assert.True(t, s.MenuOpen())

	s.SetMenuOpen(false)
	assert.False(t, s.MenuOpen())
}

func TestCreateKnotKeepsInsertionOrderAndSelects(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateKnot(ctx, "Zulu", "z")
	require.NoError(t, err)
	b, err := s.CreateKnot(ctx, "Alpha", "a")
	require.NoError(t, err)

	knots := s.Knots()
	require.Len(t, knots, 2)
	assert.Equal(t, a.ID, knots[0].ID)
	assert.Equal(t, b.ID, knots[1].ID)
	assert.Equal(t, b.ID, s.Selected())
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateKnotRejectsBlankName(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateKnot(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, knot.ErrEmptyName)
	assert.Empty(t, s.Knots())
}

func TestSelectKnotIgnoresUnknownIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateKnot(ctx, "Alpha", "")
	require.NoError(t, err)
	_, err = s.CreateKnot(ctx, "Beta", "")
	require.NoError(t, err)

	s.SelectKnot(a.ID)
	assert.Equal(t, a.ID, s.Selected())

	s.SelectKnot("missing")
	assert.Equal(t, a.ID, s.Selected())
}

func TestSelectionSurvivesReload(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateKnot(ctx, "Alpha", "")
	require.NoError(t, err)
	_, err = s.CreateKnot(ctx, "Beta", "")
	require.NoError(t, err)
	s.SelectKnot(a.ID)

	reloaded, err := New(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, a.ID, reloaded.Selected())
	assert.Len(t, reloaded.Knots(), 2)
}

func TestDeleteKnotClearsSelection(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateKnot(ctx, "Alpha", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteKnot(ctx, a.ID))
	assert.Empty(t, s.Knots())
	assert.Equal(t, "", s.Selected())

	saved, err := repo.GetState(ctx, stateSelected)
	require.NoError(t, err)
	assert.Equal(t, "", saved)
}

func TestDeleteKnotKeepsOtherSelection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateKnot(ctx, "Alpha", "")
	require.NoError(t, err)
	b, err := s.CreateKnot(ctx, "Beta", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteKnot(ctx, a.ID))
	assert.Equal(t, b.ID, s.Selected())
	require.Len(t, s.Knots(), 1)
}

func TestDeleteUnknownKnotReturnsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.DeleteKnot(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKnotPersists(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateKnot(ctx, "Alpha", "a=1")
	require.NoError(t, err)

	a.Name = "  Alpha Prime "
	a.Code = "a=2"
	updated, err := s.UpdateKnot(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Prime", updated.Name)

	got, ok := s.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a=2", got.Code)

	reloaded, err := New(ctx, repo)
	require.NoError(t, err)
	stored, ok := reloaded.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Alpha Prime", stored.Name)
	assert.Equal(t, "a=2", stored.Code)
}

func TestUpdateMissingKnotReturnsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateKnot(context.Background(), knot.Knot{ID: "ghost", Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKnotsReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.CreateKnot(context.Background(), "Alpha", "")
	require.NoError(t, err)

	knots := s.Knots()
	knots[0].Name = "mutated"
	assert.Equal(t, "Alpha", s.Knots()[0].Name)
}

func TestFindByIDOrName(t *testing.T) {
	s, _ := newTestStore(t)
	a, err := s.CreateKnot(context.Background(), "My Knot", "")
	require.NoError(t, err)

	k, ok := s.Find(a.ID)
	require.True(t, ok)
	assert.Equal(t, "My Knot", k.Name)

	k, ok = s.Find("my knot")
	require.True(t, ok)
	assert.Equal(t, a.ID, k.ID)

	_, ok = s.Find("other")
	assert.False(t, ok)
}

func TestSuggestClosestName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateKnot(ctx, "Parser", "")
	require.NoError(t, err)
	_, err = s.CreateKnot(ctx, "Formatter", "")
	require.NoError(t, err)

	name, ok := s.Suggest("parsr")
	require.True(t, ok)
	assert.Equal(t, "Parser", name)

	_, ok = s.Suggest("completely unrelated")
	assert.False(t, ok)
}
