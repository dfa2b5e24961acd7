package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNumericOverflow(t *testing.T) {
	overflow := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"})
	assert.True(t, isNumericOverflow(overflow))
	assert.False(t, isNumericOverflow(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isNumericOverflow(errors.New("22003")))
}
