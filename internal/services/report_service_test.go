package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/core"
	"dompet/internal/export"
	"dompet/internal/memory"
)

var testNow = time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)

func seed() []core.Expense {
	ani := &core.Profile{FullName: "Ani"}
	budi := &core.Profile{Username: "budi"}
	return []core.Expense{
		{ID: "1", ProjectID: "p1", UserID: "u1", Profile: ani, Amount: decimal.NewFromInt(1000), Category: core.Income, Description: "Salary", Date: "2024-01-05"},
		{ID: "2", ProjectID: "p1", UserID: "u2", Profile: budi, Amount: decimal.NewFromInt(400), Category: core.Living, Description: "Rent", Date: "2024-01-10"},
		{ID: "3", ProjectID: "p1", UserID: "u1", Profile: ani, Amount: decimal.NewFromInt(100), Category: core.Playing, Description: "Cinema", Date: "2024-01-20"},
		{ID: "4", ProjectID: "p1", UserID: "u2", Profile: budi, Amount: decimal.NewFromInt(200), Category: core.Saving, Description: "Deposit", Date: "2024-02-01"},
		{ID: "5", ProjectID: "p1", Amount: decimal.NewFromInt(50), Category: core.Living, Description: "Snacks", Date: "2024-02-03"},
		{ID: "6", ProjectID: "p2", Amount: decimal.NewFromInt(9), Category: core.Living, Description: "Other", Date: "2024-02-03"},
	}
}

func newService(store *memory.Store) *ReportService {
	n := 0
	return NewReportService(store, Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
	})
}

func month(t *testing.T, s string) core.Period {
	t.Helper()
	p, err := core.ParsePeriod(s)
	require.NoError(t, err)
	return p
}

func TestBuildReportMonth(t *testing.T) {
	svc := newService(memory.New(seed()))
	sel := core.DefaultSelector(testNow).WithPeriod(month(t, "2024-01"))

	r, err := svc.BuildReport(context.Background(), "p1", sel)
	require.NoError(t, err)

	assert.True(t, r.Summary.PeriodIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, r.Summary.PeriodExpenses.Equal(decimal.NewFromInt(500)))
	assert.True(t, r.Summary.Balance.Equal(decimal.NewFromInt(250)))
	assert.True(t, r.Summary.TotalSavings.Equal(decimal.NewFromInt(200)))

	ids := make([]string, len(r.Expenses))
	for i, e := range r.Expenses {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"3", "2", "1"}, ids)

	assert.Equal(t, []core.Contributor{{UserID: "u1", Name: "Ani"}, {UserID: "u2", Name: "budi"}}, r.Contributors)
	assert.Equal(t, []string{"2024-02", "2024-01"}, r.Months)
	assert.Len(t, r.History, 2)

	// no stored budget: average of the other months (February = 250)
	assert.Equal(t, "2024-01", r.BudgetMonth)
	assert.False(t, r.BudgetStored)
	assert.True(t, r.Budget.Equal(decimal.NewFromInt(250)))
	assert.True(t, r.BudgetSpent.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, core.BudgetOver, r.BudgetStatus)
}

func TestBuildReportAllTimeUsesCurrentMonthBudget(t *testing.T) {
	svc := newService(memory.New(seed()))
	sel := core.DefaultSelector(testNow).WithPeriod(core.AllTime).WithSort(core.Highest)

	r, err := svc.BuildReport(context.Background(), "p1", sel)
	require.NoError(t, err)

	assert.Len(t, r.Expenses, 5)
	assert.Equal(t, "1", r.Expenses[0].ID)
	assert.True(t, r.Summary.PeriodExpenses.Equal(r.Summary.AllTimeExpenses))
	assert.Equal(t, "2024-02", r.BudgetMonth)
	assert.True(t, r.BudgetSpent.Equal(decimal.NewFromInt(250)))
}

func TestBuildReportFilters(t *testing.T) {
	svc := newService(memory.New(seed()))
	sel := core.DefaultSelector(testNow).
		WithPeriod(core.AllTime).
		WithCategory(core.CategoryFilter(core.Living)).
		WithContributor("u2")

	r, err := svc.BuildReport(context.Background(), "p1", sel)
	require.NoError(t, err)
	require.Len(t, r.Expenses, 1)
	assert.Equal(t, "2", r.Expenses[0].ID)

	// the summary ignores the list filters
	assert.True(t, r.Summary.AllTimeExpenses.Equal(decimal.NewFromInt(750)))
}

func TestBuildReportInvalidSelector(t *testing.T) {
	svc := newService(memory.New(nil))
	sel := core.DefaultSelector(testNow).WithSort("sideways")

	_, err := svc.BuildReport(context.Background(), "p1", sel)
	assert.True(t, errors.Is(err, core.ErrInvalidSortOrder))
}

func TestBuildReportEmptyProject(t *testing.T) {
	svc := newService(memory.New(nil))

	r, err := svc.BuildReport(context.Background(), "nobody", core.DefaultSelector(testNow))
	require.NoError(t, err)
	assert.True(t, r.Summary.Balance.IsZero())
	assert.Empty(t, r.Expenses)
	assert.Empty(t, r.Contributors)
	assert.Equal(t, []string{"2024-02"}, r.Months)
	assert.True(t, r.Budget.Equal(decimal.NewFromInt(5_000_000)))
	assert.Equal(t, core.BudgetOK, r.BudgetStatus)
}

func TestSetBudgetInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.New(seed()))
	sel := core.DefaultSelector(testNow)

	r, err := svc.BuildReport(ctx, "p1", sel)
	require.NoError(t, err)
	assert.False(t, r.BudgetStored)

	_, err = svc.BuildReport(ctx, "p1", sel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), svc.CacheStats().Hits)

	require.NoError(t, svc.SetBudget(ctx, "p1", month(t, "2024-02"), decimal.NewFromInt(300)))

	r, err = svc.BuildReport(ctx, "p1", sel)
	require.NoError(t, err)
	assert.True(t, r.BudgetStored)
	assert.True(t, r.Budget.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, core.BudgetNear, r.BudgetStatus)
}

func TestSetBudgetRejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.New(nil))

	err := svc.SetBudget(ctx, "p1", core.AllTime, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, core.ErrInvalidPeriod))

	err = svc.SetBudget(ctx, "p1", month(t, "2024-02"), decimal.NewFromInt(-5))
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))
}

func TestAddTransaction(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	svc := newService(store)

	stored, err := svc.AddTransaction(ctx, "p1", "u1", core.Draft{
		Amount:      decimal.NewFromInt(75),
		Category:    core.Playing,
		Description: "Concert",
		Date:        "2024-02-10",
		Source:      core.SourceSaving,
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "new-1", stored[0].ID)
	assert.Equal(t, "Cover for: Concert", stored[1].Description)
	assert.Equal(t, 2, store.Len())

	r, err := svc.BuildReport(ctx, "p1", core.DefaultSelector(testNow))
	require.NoError(t, err)
	assert.True(t, r.Summary.TotalSavings.Equal(decimal.NewFromInt(-75)))
	assert.True(t, r.Summary.Balance.IsZero())

	_, err = svc.AddTransaction(ctx, "p1", "u1", core.Draft{Amount: decimal.Zero, Category: core.Living, Description: "x", Date: "2024-02-10"})
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))
	assert.Equal(t, 2, store.Len())
}

func TestExport(t *testing.T) {
	svc := newService(memory.New(seed()))

	var buf bytes.Buffer
	name, err := svc.Export(context.Background(), "p1", month(t, "2024-02"), &buf)
	require.NoError(t, err)
	assert.Equal(t, "expenses-2024-02.csv", name)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Category,Description,Amount,Type,Added By", lines[0])
	assert.Equal(t, "2024-02-03,Living,Snacks,50,Expense,Unknown", lines[1])
	assert.Equal(t, "2024-02-01,Saving,Deposit,200,Income,budi", lines[2])

	_, err = svc.Export(context.Background(), "p1", month(t, "2023-01"), &buf)
	assert.True(t, errors.Is(err, export.ErrNothingToExport))
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) ListExpenses(context.Context, string) ([]core.Expense, error) {
	return nil, f.err
}

func TestBuildReportLoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewReportService(failingStore{Store: memory.New(nil), err: boom}, Options{})

	_, err := svc.BuildReport(context.Background(), "p1", core.DefaultSelector(testNow))
	assert.True(t, errors.Is(err, boom))
}

func TestBuildReportConcurrentCallers(t *testing.T) {
	svc := newService(memory.New(seed()))
	sel := core.DefaultSelector(testNow).WithPeriod(core.AllTime)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BuildReport(context.Background(), "p1", sel); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
