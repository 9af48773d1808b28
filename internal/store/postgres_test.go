package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	n   int64
	err error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.n, f.err }

func TestCheckAffected(t *testing.T) {
	r := &PostgresRepo{}

	require.NoError(t, r.checkAffected("set state", 7, fakeResult{n: 1}))
	require.ErrorIs(t, r.checkAffected("set state", 7, fakeResult{n: 0}), ErrNotFound)
	require.ErrorIs(t, r.checkAffected("set state", 7, fakeResult{err: errors.New("connection reset")}),
		ErrUnavailable, "a RowsAffected failure must not pass as success")
}
