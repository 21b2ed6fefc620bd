/*
balance.go - Remaining-day arithmetic for PersonLeaveBalance

PURPOSE:
  Pure helpers over the balance document. Day counts are decimal.Decimal
  so half-day grants never pick up float error.

FLOOR INVARIANT:
  A deduction can never take an entry below zero. Over-consumption clamps;
  it does not go negative and it does not fail.
*/
package leave

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DeductEntry decrements the entry matching leaveType (case-insensitive
// name match) by days, floored at zero. Returns false when no entry
// matches; the caller treats that as a silent skip.
func DeductEntry(balance *PersonLeaveBalance, leaveType string, days int) bool {
	for i := range balance.Entries {
		if !strings.EqualFold(balance.Entries[i].Name, leaveType) {
			continue
		}
		remaining := balance.Entries[i].RemainingDays.Sub(decimal.NewFromInt(int64(days)))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		balance.Entries[i].RemainingDays = remaining
		return true
	}
	return false
}

// GrantDays adds days to the entry matching leaveType, creating the entry
// when absent. TotalDays grows with the grant.
func GrantDays(balance *PersonLeaveBalance, leaveType string, days decimal.Decimal) {
	for i := range balance.Entries {
		if strings.EqualFold(balance.Entries[i].Name, leaveType) {
			balance.Entries[i].RemainingDays = balance.Entries[i].RemainingDays.Add(days)
			balance.Entries[i].TotalDays = balance.Entries[i].TotalDays.Add(days)
			return
		}
	}
	balance.Entries = append(balance.Entries, BalanceEntry{
		Name:          leaveType,
		RemainingDays: days,
		TotalDays:     days,
	})
}

// Remaining reports the remaining days for leaveType, zero when absent.
func Remaining(balance *PersonLeaveBalance, leaveType string) decimal.Decimal {
	for _, e := range balance.Entries {
		if strings.EqualFold(e.Name, leaveType) {
			return e.RemainingDays
		}
	}
	return decimal.Zero
}
