package repository

import (
	"errors"
	"fmt"
	"testing"

	repo "foodorder/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), repo.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), repo.ErrDuplicate)

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_order_number"}
	assert.ErrorIs(t, translate(fmt.Errorf("insert: %w", pgErr)), repo.ErrDuplicate)

	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, other, translate(other))

	boom := errors.New("boom")
	assert.Equal(t, boom, translate(boom))
}
