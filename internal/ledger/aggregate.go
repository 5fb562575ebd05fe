// Package ledger computes the dashboard figures and list views of a project
// from its expense records.
//
// Every function here is a pure read of its inputs: records are never
// mutated and no state is kept between calls, so results can be recomputed
// whenever the records or the selector change.
package ledger

import (
	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Aggregate computes the summary for the selected period in a single pass.
//
// Income records add to income and everything else adds to expenses; Saving
// records also add to savings. Balance and TotalSavings are taken over the
// whole history whatever the period is.
func Aggregate(expenses []core.Expense, period core.Period) core.Summary {
	var (
		periodIncome, periodExpense decimal.Decimal
		income, expense, savings    decimal.Decimal
	)

	for _, e := range expenses {
		amount := e.Amount
		inPeriod := period.Contains(e.Date)

		if e.Category.IsIncome() {
			income = income.Add(amount)
			if inPeriod {
				periodIncome = periodIncome.Add(amount)
			}
		} else {
			expense = expense.Add(amount)
			if inPeriod {
				periodExpense = periodExpense.Add(amount)
			}
		}

		if e.Category.IsSaving() {
			savings = savings.Add(amount)
		}
	}

	return core.Summary{
		PeriodIncome:    periodIncome,
		PeriodExpenses:  periodExpense,
		Balance:         income.Sub(expense),
		TotalSavings:    savings,
		AllTimeIncome:   income,
		AllTimeExpenses: expense,
	}
}

// InPeriod returns the records dated within the period, in input order.
func InPeriod(expenses []core.Expense, period core.Period) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
