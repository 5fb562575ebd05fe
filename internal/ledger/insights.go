package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// DefaultBudget applies when there is neither a stored budget nor any
// spending history to average.
var DefaultBudget = decimal.NewFromInt(5_000_000)

// nearBudgetRatio is the share of the budget past which spending is flagged.
var nearBudgetRatio = decimal.RequireFromString("0.8")

// AvailableMonths returns every YYYY-MM that has records, plus the month of
// now, newest first.
func AvailableMonths(expenses []core.Expense, now time.Time) []string {
	seen := map[string]struct{}{core.MonthOf(now).String(): {}}
	for _, e := range expenses {
		if m := e.Month(); m != "" {
			seen[m] = struct{}{}
		}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	slices.Sort(months)
	slices.Reverse(months)
	return months
}

// CategoryBreakdown totals the expense categories. Income and unrecognised
// categories are left out.
func CategoryBreakdown(expenses []core.Expense) []core.CategoryAmount {
	totals := map[core.Category]decimal.Decimal{}
	for _, e := range expenses {
		switch e.Category {
		case core.Living, core.Playing, core.Saving:
			totals[e.Category] = totals[e.Category].Add(e.Amount)
		}
	}
	return []core.CategoryAmount{
		{Category: core.Living, Amount: totals[core.Living]},
		{Category: core.Playing, Amount: totals[core.Playing]},
		{Category: core.Saving, Amount: totals[core.Saving]},
	}
}

// MonthlyHistory totals expenses per month, oldest month first. Income is
// never counted; a category filter other than "All" restricts the records.
func MonthlyHistory(expenses []core.Expense, filter core.CategoryFilter) []core.MonthTotal {
	byMonth := map[string]*core.MonthTotal{}
	for _, e := range expenses {
		if !filter.Matches(e.Category) || e.Category.IsIncome() {
			continue
		}
		month := e.Month()
		if month == "" {
			continue
		}
		mt, ok := byMonth[month]
		if !ok {
			mt = &core.MonthTotal{Month: month}
			byMonth[month] = mt
		}
		mt.Total = mt.Total.Add(e.Amount)
		switch e.Category {
		case core.Living:
			mt.Living = mt.Living.Add(e.Amount)
		case core.Playing:
			mt.Playing = mt.Playing.Add(e.Amount)
		case core.Saving:
			mt.Saving = mt.Saving.Add(e.Amount)
		}
	}

	out := make([]core.MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	slices.SortFunc(out, func(a, b core.MonthTotal) int {
		if a.Month < b.Month {
			return -1
		}
		if a.Month > b.Month {
			return 1
		}
		return 0
	})
	return out
}

// AverageMonthlySpending is the mean monthly expense total over every month
// except the excluded one, rounded to whole Rupiah. Without such months it
// returns DefaultBudget.
func AverageMonthlySpending(expenses []core.Expense, exclude string) decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, e := range expenses {
		if e.Category.IsIncome() {
			continue
		}
		month := e.Month()
		if month == "" || month == exclude {
			continue
		}
		totals[month] = totals[month].Add(e.Amount)
	}
	if len(totals) == 0 {
		return DefaultBudget
	}

	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(totals)))).Round(0)
}

// ResolveBudget picks the stored budget for a month when there is one, and
// the historical average otherwise.
func ResolveBudget(expenses []core.Expense, month string, stored *decimal.Decimal) decimal.Decimal {
	if stored != nil {
		return *stored
	}
	return AverageMonthlySpending(expenses, month)
}

// BudgetStatus compares spending with a budget.
func BudgetStatus(spent, budget decimal.Decimal) core.BudgetState {
	if spent.GreaterThan(budget) {
		return core.BudgetOver
	}
	if spent.GreaterThan(budget.Mul(nearBudgetRatio)) {
		return core.BudgetNear
	}
	return core.BudgetOK
}
