package leave

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeductEntry_FloorsAtZero(t *testing.T) {
	// Over-consumption clamps; the balance never goes negative.
	balance := &PersonLeaveBalance{
		PersonID: "p-1",
		Entries:  []BalanceEntry{{Name: "연가", RemainingDays: decimal.NewFromInt(3)}},
	}

	assert.True(t, DeductEntry(balance, "연가", 5))
	assert.True(t, balance.Entries[0].RemainingDays.IsZero())
}

func TestDeductEntry_CaseInsensitiveMatch(t *testing.T) {
	balance := &PersonLeaveBalance{
		Entries: []BalanceEntry{{Name: "Annual Leave", RemainingDays: decimal.NewFromInt(10)}},
	}

	assert.True(t, DeductEntry(balance, "annual leave", 4))
	assert.True(t, decimal.NewFromInt(6).Equal(balance.Entries[0].RemainingDays))
}

func TestDeductEntry_NoMatchingEntry(t *testing.T) {
	balance := &PersonLeaveBalance{
		Entries: []BalanceEntry{{Name: "연가", RemainingDays: decimal.NewFromInt(10)}},
	}

	assert.False(t, DeductEntry(balance, "포상휴가", 2))
	assert.True(t, decimal.NewFromInt(10).Equal(balance.Entries[0].RemainingDays))
}

func TestGrantDays(t *testing.T) {
	balance := &PersonLeaveBalance{}

	GrantDays(balance, "연가", decimal.NewFromInt(24))
	GrantDays(balance, "연가", decimal.RequireFromString("0.5"))
	GrantDays(balance, "포상휴가", decimal.NewFromInt(3))

	assert.Len(t, balance.Entries, 2)
	assert.True(t, decimal.RequireFromString("24.5").Equal(Remaining(balance, "연가")))
	assert.True(t, decimal.NewFromInt(3).Equal(Remaining(balance, "포상휴가")))
	assert.True(t, Remaining(balance, "병가").IsZero())
}
