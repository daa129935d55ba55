package ledger

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	date := civil.Date{Year: 2025, Month: 1, Day: 1}

	t.Run("SuccessfulCreation", func(t *testing.T) {
		txn, err := NewTransaction(date, "20250101-01", shared.TransactionTypeDeposit, 10000)
		require.NoError(t, err)

		assert.Equal(t, date, txn.Date())
		assert.Equal(t, "20250101-01", txn.ID())
		assert.Equal(t, shared.TransactionTypeDeposit, txn.Kind())
		assert.Equal(t, Amount(10000), txn.Amount())
		assert.Equal(t, Amount(10000), txn.Delta())
	})

	t.Run("WithdrawalHasNegativeDelta", func(t *testing.T) {
		txn, err := NewTransaction(date, "20250101-02", shared.TransactionTypeWithdrawal, 2500)
		require.NoError(t, err)
		assert.Equal(t, Amount(-2500), txn.Delta())
	})

	t.Run("TodayIsAllowed", func(t *testing.T) {
		_, err := NewTransaction(shared.Today(), "t", shared.TransactionTypeDeposit, 1)
		assert.NoError(t, err)
	})

	t.Run("FutureDateRejected", func(t *testing.T) {
		_, err := NewTransaction(shared.Today().AddDays(1), "t", shared.TransactionTypeDeposit, 100)
		require.Error(t, err)
		assert.ErrorIs(t, err, ValidationError{Field: "date"})
	})

	t.Run("FutureRelativeToInjectedToday", func(t *testing.T) {
		today := civil.Date{Year: 2025, Month: 6, Day: 30}
		_, err := newTransaction(today, civil.Date{Year: 2025, Month: 7, Day: 1}, "t", shared.TransactionTypeDeposit, 100)
		assert.ErrorIs(t, err, ValidationError{})

		_, err = newTransaction(today, today, "t", shared.TransactionTypeDeposit, 100)
		assert.NoError(t, err)
	})

	t.Run("UndefinedKindRejected", func(t *testing.T) {
		_, err := NewTransaction(date, "t", shared.TransactionType("X"), 100)
		require.Error(t, err)
		assert.ErrorIs(t, err, ValidationError{Field: "type"})
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		for _, amount := range []Amount{0, -100} {
			_, err := NewTransaction(date, "t", shared.TransactionTypeDeposit, amount)
			require.Error(t, err, "amount %d", amount)
			assert.ErrorIs(t, err, ValidationError{Field: "amount"})
		}
	})

	t.Run("InvalidCalendarDateRejected", func(t *testing.T) {
		_, err := NewTransaction(civil.Date{Year: 2025, Month: 2, Day: 30}, "t", shared.TransactionTypeDeposit, 100)
		assert.ErrorIs(t, err, ValidationError{Field: "date"})
	})
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Amount
		wantErr  bool
	}{
		{"WholeNumber", "100", 10000, false},
		{"OneDecimal", "100.5", 10050, false},
		{"TwoDecimals", "0.01", 1, false},
		{"TrailingZeros", "12.300", 1230, false},
		{"Padded", " 5.25 ", 525, false},
		{"TooPrecise", "1.005", 0, true},
		{"Zero", "0", 0, true},
		{"Negative", "-3", 0, true},
		{"NotANumber", "abc", 0, true},
		{"Empty", "", 0, true},
		{"MaxAmount", "92233720368547758.07", MaxAmount, false},
		{"OneCentOverMax", "92233720368547758.08", 0, true},
		{"WouldWrapToOneCent", "184467440737095516.17", 0, true},
		{"FarOverMax", "1e30", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := ParseAmount(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ValidationError{Field: "amount"})
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, amount)
		})
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "1004.25", Amount(100425).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "100.00", Amount(10000).String())
}

func TestAmountFromDecimal(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected Amount
	}{
		{"Exact", "4.25", 425},
		{"RoundsHalfUp", "0.005", 1},
		{"RoundsDown", "0.0049", 0},
		{"Negative", "-1.255", -126},
		{"AtMax", "92233720368547758.07", MaxAmount},
		{"SaturatesAboveMax", "92233720368547758.08", MaxAmount},
		{"SaturatesFarAboveMax", "184467440737095516.17", MaxAmount},
		{"SaturatesBelowNegativeMax", "-92233720368547758.09", -MaxAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AmountFromDecimal(decimal.RequireFromString(tc.value)))
		})
	}
}
