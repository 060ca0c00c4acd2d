//go:build unit

package pgconv

import (
	"math"
	"testing"

	"payment-reconciler/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestClampInt32(t *testing.T) {
	assert.Equal(t, int32(0), ClampInt32(-5))
	assert.Equal(t, int32(51), ClampInt32(51))
	assert.Equal(t, int32(math.MaxInt32), ClampInt32(math.MaxInt64))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(errs.Wrap(pgx.ErrNoRows, "lookup")))
	assert.False(t, IsNoRows(errs.New("boom")))
}
