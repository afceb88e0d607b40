package circulation

import (
	"testing"
	"time"

	"github.com/library/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNewBookRental(t *testing.T) {
	t.Run("defaults issued on to today", func(t *testing.T) {
		rental, err := NewBookRental(uuid.New(), uuid.New(), time.Time{})
		require.NoError(t, err)

		now := time.Now()
		assert.Equal(t, date(now.Year(), now.Month(), now.Day()), rental.IssuedOn)
		assert.False(t, rental.Returned())
	})

	t.Run("truncates issued on to a date", func(t *testing.T) {
		rental, err := NewBookRental(uuid.New(), uuid.New(), time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, date(2026, 3, 14), rental.IssuedOn)
	})

	t.Run("requires book and member references", func(t *testing.T) {
		_, err := NewBookRental(uuid.Nil, uuid.Nil, time.Time{})
		var errs shared.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs, 2)
	})
}

func TestBookRental_DueBy(t *testing.T) {
	rental, err := NewBookRental(uuid.New(), uuid.New(), date(2026, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, date(2026, 1, 16), rental.DueBy())
}

func TestBookRental_Fine(t *testing.T) {
	issuedOn := date(2026, 1, 1)
	dueBy := issuedOn.AddDate(0, 0, DueByDays)

	newRental := func(t *testing.T) *BookRental {
		t.Helper()
		rental, err := NewBookRental(uuid.New(), uuid.New(), issuedOn)
		require.NoError(t, err)
		return rental
	}

	t.Run("zero before the due date", func(t *testing.T) {
		rental := newRental(t)
		assert.True(t, rental.Fine(issuedOn).IsZero())
		assert.True(t, rental.Fine(dueBy.AddDate(0, 0, -1)).IsZero())
	})

	t.Run("zero on the due date itself", func(t *testing.T) {
		rental := newRental(t)
		assert.True(t, rental.Fine(dueBy).IsZero())
	})

	t.Run("grows by the daily rate past the due date", func(t *testing.T) {
		rental := newRental(t)
		for k := 1; k <= 30; k++ {
			asOf := dueBy.AddDate(0, 0, k)
			expected := decimal.NewFromInt(int64(k)).Mul(FinePerDay)
			assert.True(t, expected.Equal(rental.Fine(asOf)),
				"fine %s days late should be %s, got %s", asOf, expected, rental.Fine(asOf))
		}
	})

	t.Run("always zero once returned", func(t *testing.T) {
		rental := newRental(t)
		returnedOn := dueBy.AddDate(0, 0, 10)
		rental.ReturnedOn = &returnedOn

		assert.True(t, rental.Fine(dueBy.AddDate(0, 0, 100)).IsZero())
	})

	t.Run("ignores the time of day", func(t *testing.T) {
		rental := newRental(t)
		lateEvening := time.Date(2026, 1, 17, 23, 55, 0, 0, time.UTC)
		assert.True(t, decimal.NewFromInt(1).Equal(rental.Fine(lateEvening)))
	})
}
