package counters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/store"
)

func testService(t *testing.T) (*Service, *store.MemoryRepo) {
	t.Helper()
	reg := catalog.NewRegistry(nil, []catalog.Counter{
		{ID: "wins", Name: "🧮 Счётчик Побед"},
	})
	repo := store.NewMemoryRepo()
	return NewService(reg, repo), repo
}

func TestAdjustIncrementAndDecrement(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	v, err := svc.Adjust(ctx, 7, "wins", +1)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = svc.Adjust(ctx, 7, "wins", +1)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	v, err = svc.Adjust(ctx, 7, "wins", -1)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestAdjustFloorsAtZero(t *testing.T) {
	svc, repo := testService(t)
	ctx := context.Background()

	v, err := svc.Adjust(ctx, 7, "wins", -1)
	require.ErrorIs(t, err, ErrFloor)
	require.Equal(t, 0, v)

	stored, err := repo.GetCounter(ctx, 7, "wins")
	require.NoError(t, err)
	require.Equal(t, 0, stored, "floor violation must not write")
}

func TestAdjustUnknownCounter(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Adjust(context.Background(), 7, "losses", +1)
	require.Error(t, err)
}

func TestValueDefaultsToZero(t *testing.T) {
	svc, _ := testService(t)

	v, err := svc.Value(context.Background(), 7, "wins")
	require.NoError(t, err)
	require.Equal(t, 0, v)
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	svc, repo := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureExists(ctx, 7, "wins"))

	_, err := svc.Adjust(ctx, 7, "wins", +1)
	require.NoError(t, err)

	require.NoError(t, svc.EnsureExists(ctx, 7, "wins"))
	v, err := repo.GetCounter(ctx, 7, "wins")
	require.NoError(t, err)
	require.Equal(t, 1, v, "ensure must not reset an existing value")
}

func TestParseAction(t *testing.T) {
	id, delta, ok := ParseAction("wins_increment")
	require.True(t, ok)
	require.Equal(t, "wins", id)
	require.Equal(t, +1, delta)

	id, delta, ok = ParseAction("wins_decrement")
	require.True(t, ok)
	require.Equal(t, "wins", id)
	require.Equal(t, -1, delta)

	_, _, ok = ParseAction("wins")
	require.False(t, ok)
}

func TestActionDataRoundTrip(t *testing.T) {
	id, delta, ok := ParseAction(IncrementData("wins"))
	require.True(t, ok)
	require.Equal(t, "wins", id)
	require.Equal(t, +1, delta)

	id, delta, ok = ParseAction(DecrementData("wins"))
	require.True(t, ok)
	require.Equal(t, "wins", id)
	require.Equal(t, -1, delta)
}
