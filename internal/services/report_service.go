package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/export"
	"dompet/internal/ledger"
	applog "dompet/internal/log"
	"dompet/internal/ports"
)

// Report is everything a dashboard shows for one selector.
type Report struct {
	Selector     core.Selector
	Summary      core.Summary
	Expenses     []core.Expense
	Contributors []core.Contributor
	Months       []string
	Breakdown    []core.CategoryAmount
	History      []core.MonthTotal

	// Budget applies to BudgetMonth: the selected month, or the current
	// month when the selector spans all time.
	BudgetMonth  string
	Budget       decimal.Decimal
	BudgetStored bool
	BudgetSpent  decimal.Decimal
	BudgetStatus core.BudgetState
}

// budgetEntry caches a budget lookup, including "no budget stored".
type budgetEntry struct {
	amount decimal.Decimal
	stored bool
}

// ReportService computes reports over a store and records new transactions.
type ReportService struct {
	store   ports.Store
	budgets *cache.LRUCache[budgetEntry]
	logger  *applog.Logger
	newID   ledger.IDFunc
	now     func() time.Time
}

type Options struct {
	BudgetCacheSize int
	BudgetCacheTTL  time.Duration
	Logger          *applog.Logger
	NewID           ledger.IDFunc
	Now             func() time.Time
}

func NewReportService(store ports.Store, opts Options) *ReportService {
	if opts.BudgetCacheSize <= 0 {
		opts.BudgetCacheSize = 64
	}
	if opts.BudgetCacheTTL <= 0 {
		opts.BudgetCacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = applog.Discard()
	}
	if opts.NewID == nil {
		opts.NewID = ledger.NewID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReportService{
		store:   store,
		budgets: cache.NewLRUCache[budgetEntry](opts.BudgetCacheSize, opts.BudgetCacheTTL),
		logger:  opts.Logger.WithComponent(applog.ComponentReport),
		newID:   opts.NewID,
		now:     opts.Now,
	}
}

// BuildReport loads the project's records and stored budget concurrently and
// derives every figure for the selector.
func (s *ReportService) BuildReport(ctx context.Context, projectID string, sel core.Selector) (*Report, error) {
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	start := time.Now()
	budgetPeriod := s.budgetPeriod(sel.Period)
	month := budgetPeriod.String()

	var (
		expenses []core.Expense
		budget   budgetEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budget, err = s.lookupBudget(gctx, projectID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Report load failed",
			applog.NewFields().WithOperation(applog.OpReport).WithProject(projectID).WithError(err).ToSlice()...)
		return nil, err
	}

	scoped := ledger.InPeriod(expenses, sel.Period)
	spent := ledger.Aggregate(expenses, budgetPeriod).PeriodExpenses

	var stored *decimal.Decimal
	if budget.stored {
		stored = &budget.amount
	}
	resolved := ledger.ResolveBudget(expenses, month, stored)

	r := &Report{
		Selector:     sel,
		Summary:      ledger.Aggregate(expenses, sel.Period),
		Expenses:     ledger.View(scoped, sel),
		Contributors: ledger.Contributors(scoped),
		Months:       ledger.AvailableMonths(expenses, s.now()),
		Breakdown:    ledger.CategoryBreakdown(scoped),
		History:      ledger.MonthlyHistory(expenses, sel.Category),
		BudgetMonth:  month,
		Budget:       resolved,
		BudgetStored: budget.stored,
		BudgetSpent:  spent,
		BudgetStatus: ledger.BudgetStatus(spent, resolved),
	}

	s.logger.InfoContext(ctx, "Report built",
		applog.NewFields().
			WithOperation(applog.OpReport).
			WithProject(projectID).
			WithSelector(sel.Period.String(), string(sel.Category), sel.Contributor, string(sel.Sort)).
			WithCount(len(r.Expenses)).
			ToSlice()...)
	s.logger.DebugContext(ctx, "Report timing", applog.FieldDuration, time.Since(start).Milliseconds())
	return r, nil
}

// AddTransaction validates a draft and stores its records. It returns the
// stored records.
func (s *ReportService) AddTransaction(ctx context.Context, projectID, userID string, d core.Draft) ([]core.Expense, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("add transaction: %w", err)
	}
	entries := ledger.Entries(d, projectID, userID, s.newID)
	if err := s.store.AppendExpenses(ctx, entries); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store transaction",
			applog.NewFields().WithOperation(applog.OpAppend).WithProject(projectID).WithError(err).ToSlice()...)
		return nil, fmt.Errorf("store transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction added",
		applog.FieldProject, projectID,
		applog.FieldCategory, string(d.Category),
		applog.FieldAmount, d.Amount.String(),
		applog.FieldCount, len(entries))
	return entries, nil
}

// SetBudget stores a monthly budget and drops any cached lookup for it.
func (s *ReportService) SetBudget(ctx context.Context, projectID string, month core.Period, amount decimal.Decimal) error {
	if month.IsAllTime() {
		return fmt.Errorf("set budget: %w", core.ErrInvalidPeriod)
	}
	if err := s.store.SetBudget(ctx, projectID, month.String(), amount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	s.budgets.Delete(budgetKey(projectID, month.String()))
	s.logger.InfoContext(ctx, "Budget updated",
		applog.FieldOperation, applog.OpBudget,
		applog.FieldProject, projectID,
		applog.FieldMonth, month.String(),
		applog.FieldAmount, amount.String())
	return nil
}

// Export writes the period's records as CSV, newest first, and returns the
// suggested file name.
func (s *ReportService) Export(ctx context.Context, projectID string, period core.Period, w io.Writer) (string, error) {
	expenses, err := s.store.ListExpenses(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}
	rows := ledger.InPeriod(expenses, period)
	if err := export.WriteCSV(w, rows); err != nil {
		return "", fmt.Errorf("export %s: %w", period, err)
	}
	name := export.FileName(period)
	s.logger.InfoContext(ctx, "Expenses exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldProject, projectID,
		applog.FieldPeriod, period.String(),
		applog.FieldCount, len(rows),
		applog.FieldPath, name)
	return name, nil
}

// CacheStats exposes the budget cache counters.
func (s *ReportService) CacheStats() cache.Stats {
	return s.budgets.Stats()
}

func (s *ReportService) lookupBudget(ctx context.Context, projectID, month string) (budgetEntry, error) {
	key := budgetKey(projectID, month)
	if e, ok := s.budgets.Get(key); ok {
		s.logger.DebugContext(ctx, "Budget cache hit", applog.FieldMonth, month, applog.FieldCacheHit, true)
		return e, nil
	}
	b, err := s.store.GetBudget(ctx, projectID, month)
	if err != nil {
		return budgetEntry{}, fmt.Errorf("get budget: %w", err)
	}
	var e budgetEntry
	if b != nil {
		e = budgetEntry{amount: *b, stored: true}
	}
	s.budgets.Set(key, e)
	return e, nil
}

func (s *ReportService) budgetPeriod(p core.Period) core.Period {
	if p.IsAllTime() {
		return core.MonthOf(s.now())
	}
	return p
}

func budgetKey(projectID, month string) string {
	return projectID + "/" + month
}
