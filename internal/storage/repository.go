package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dompet/internal/core"
	applog "dompet/internal/log"

	_ "modernc.org/sqlite"
)

// createdAtLayout is fixed width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteRepository struct {
	db      *sql.DB
	logger  *applog.Logger
	version uint
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite schema ready", applog.FieldPath, dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		logger:  logger,
		version: version,
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SchemaVersion is the migration version applied when the repository opened.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.version
}

// ListExpenses implements ports.ExpenseLister. Amounts that do not parse are
// returned as zero.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, projectID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.project_id, COALESCE(e.user_id, ''), e.amount, e.category,
		       e.description, e.date, e.created_at,
		       p.id IS NOT NULL, COALESCE(p.full_name, ''), COALESCE(p.username, '')
		FROM expenses e
		LEFT JOIN profiles p ON p.id = e.user_id
		WHERE e.project_id = ?
		ORDER BY e.date DESC, e.created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e                  core.Expense
			amount, createdAt  string
			category           string
			hasProfile         bool
			fullName, username string
		)
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.UserID, &amount, &category,
			&e.Description, &e.Date, &createdAt, &hasProfile, &fullName, &username); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.ParseAmount(amount)
		e.Category = core.Category(category)
		if t, err := time.Parse(createdAtLayout, createdAt); err == nil {
			e.CreatedAt = t
		}
		if hasProfile {
			e.Profile = &core.Profile{FullName: fullName, Username: username}
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	r.logger.DebugContext(ctx, "Expenses loaded", applog.FieldProject, projectID, applog.FieldCount, len(expenses))
	return expenses, nil
}

// AppendExpenses implements ports.ExpenseWriter. All records are written in
// one transaction.
func (r *SQLiteRepository) AppendExpenses(ctx context.Context, expenses []core.Expense) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, project_id, user_id, amount, category, description, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	base := r.now().UTC()
	for i, e := range expenses {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = base.Add(time.Duration(i))
		}
		var userID any
		if e.UserID != "" {
			userID = e.UserID
		}
		if _, err = stmt.ExecContext(ctx, e.ID, e.ProjectID, userID, e.Amount.String(),
			string(e.Category), e.Description, e.Date, createdAt.UTC().Format(createdAtLayout)); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	r.logger.InfoContext(ctx, "Expenses saved to SQLite", applog.FieldCount, len(expenses))
	return nil
}

// UpsertProfile stores the display names of a user.
func (r *SQLiteRepository) UpsertProfile(ctx context.Context, userID string, p core.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, username) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET full_name = excluded.full_name, username = excluded.username`,
		userID, nullable(p.FullName), nullable(p.Username))
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", userID, err)
	}
	return nil
}

// GetBudget implements ports.BudgetStore.
func (r *SQLiteRepository) GetBudget(ctx context.Context, projectID, month string) (*decimal.Decimal, error) {
	var amount string
	err := r.db.QueryRowContext(ctx,
		`SELECT amount FROM budgets WHERE project_id = ? AND month = ?`, projectID, month).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	b := core.ParseAmount(amount)
	return &b, nil
}

// SetBudget implements ports.BudgetStore, replacing any budget for the month.
func (r *SQLiteRepository) SetBudget(ctx context.Context, projectID, month string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (project_id, month, amount) VALUES (?, ?, ?)
		ON CONFLICT(project_id, month) DO UPDATE SET amount = excluded.amount`,
		projectID, month, amount.String())
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	r.logger.InfoContext(ctx, "Budget saved", applog.FieldProject, projectID, applog.FieldMonth, month, applog.FieldAmount, amount.String())
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
