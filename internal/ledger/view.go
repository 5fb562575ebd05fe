package ledger

import (
	"slices"
	"strings"

	"dompet/internal/core"
)

// Filter keeps the records matching both the category and the contributor
// filter. A record without a user ID only survives when contributor is "All".
func Filter(expenses []core.Expense, category core.CategoryFilter, contributor string) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !category.Matches(e.Category) {
			continue
		}
		if contributor != core.AllContributors && e.UserID != contributor {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Sort returns a copy of expenses ordered by date or amount. Records with
// equal keys keep their relative input order. An unknown order returns the
// copy unsorted.
func Sort(expenses []core.Expense, order core.SortOrder) []core.Expense {
	out := slices.Clone(expenses)
	if out == nil {
		out = []core.Expense{}
	}

	var cmp func(a, b core.Expense) int
	switch order {
	case core.Newest:
		cmp = func(a, b core.Expense) int { return strings.Compare(b.Date, a.Date) }
	case core.Oldest:
		cmp = func(a, b core.Expense) int { return strings.Compare(a.Date, b.Date) }
	case core.Highest:
		cmp = func(a, b core.Expense) int { return b.Amount.Cmp(a.Amount) }
	case core.Lowest:
		cmp = func(a, b core.Expense) int { return a.Amount.Cmp(b.Amount) }
	default:
		return out
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// View applies the selector's filters and ordering. The period is not
// applied here; callers pass the records the list should be built from.
func View(expenses []core.Expense, sel core.Selector) []core.Expense {
	return Sort(Filter(expenses, sel.Category, sel.Contributor), sel.Sort)
}

// Contributors lists each user with at least one attributed record, in order
// of first appearance. Records lacking a user ID or profile are skipped. When
// a user's records disagree on the name, the last one seen wins.
func Contributors(expenses []core.Expense) []core.Contributor {
	index := make(map[string]int)
	out := []core.Contributor{}
	for _, e := range expenses {
		if e.UserID == "" || e.Profile == nil {
			continue
		}
		name := e.Profile.DisplayName()
		if i, ok := index[e.UserID]; ok {
			out[i].Name = name
			continue
		}
		index[e.UserID] = len(out)
		out = append(out, core.Contributor{UserID: e.UserID, Name: name})
	}
	return out
}
