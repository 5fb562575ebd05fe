// Package ports declares what the reporting service needs from a data
// source. The memory and sqlite backends both implement every port.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

type (
	// ExpenseLister returns a project's records, newest first.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, projectID string) ([]core.Expense, error)
	}

	ExpenseWriter interface {
		AppendExpenses(ctx context.Context, expenses []core.Expense) error
	}

	// BudgetStore keeps the manual monthly budget of a project. GetBudget
	// returns nil when no budget was set for the month.
	BudgetStore interface {
		GetBudget(ctx context.Context, projectID, month string) (*decimal.Decimal, error)
		SetBudget(ctx context.Context, projectID, month string, amount decimal.Decimal) error
	}

	// Store is everything a backend provides.
	Store interface {
		ExpenseLister
		ExpenseWriter
		BudgetStore
	}
)
