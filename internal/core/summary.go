package core

import "github.com/shopspring/decimal"

// Summary holds the dashboard figures. Balance and TotalSavings always cover
// the whole history; PeriodIncome and PeriodExpenses cover the selected period.
type Summary struct {
	PeriodIncome    decimal.Decimal
	PeriodExpenses  decimal.Decimal
	Balance         decimal.Decimal
	TotalSavings    decimal.Decimal
	AllTimeIncome   decimal.Decimal
	AllTimeExpenses decimal.Decimal
}

// Contributor is a user who authored at least one record.
type Contributor struct {
	UserID string
	Name   string
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MonthTotal is one bar of the expense history chart.
type MonthTotal struct {
	Month   string // YYYY-MM
	Total   decimal.Decimal
	Living  decimal.Decimal
	Playing decimal.Decimal
	Saving  decimal.Decimal
}

// BudgetState classifies period spending against the month budget.
type BudgetState string

const (
	BudgetOK   BudgetState = "ok"
	BudgetNear BudgetState = "near"
	BudgetOver BudgetState = "over"
)
