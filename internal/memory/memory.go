package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// DefaultProject receives seeded records that carry no project ID.
const DefaultProject = "default"

var ErrMissingID = errors.New("expense without id")

type Store struct {
	mu       sync.Mutex
	items    []core.Expense
	budgets  map[string]decimal.Decimal // project + "/" + month
	now      func() time.Time
	ordering int64
}

func New(seed []core.Expense) *Store {
	s := &Store{
		budgets: map[string]decimal.Decimal{},
		now:     time.Now,
	}
	for _, e := range seed {
		if e.ProjectID == "" {
			e.ProjectID = DefaultProject
		}
		s.items = append(s.items, e)
	}
	return s
}

// NewFromFile seeds the store with a JSON array of expense records. An empty
// path gives an empty store.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []core.Expense
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(seed), nil
}

// ListExpenses returns copies of the project's records ordered by date, then
// creation time, newest first.
func (s *Store) ListExpenses(_ context.Context, projectID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *Store) AppendExpenses(_ context.Context, expenses []core.Expense) error {
	for _, e := range expenses {
		if e.ID == "" {
			return ErrMissingID
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range expenses {
		if e.CreatedAt.IsZero() {
			// keep insertion order visible when several records share a clock tick
			s.ordering++
			e.CreatedAt = s.now().Add(time.Duration(s.ordering))
		}
		s.items = append(s.items, e)
	}
	return nil
}

func (s *Store) GetBudget(_ context.Context, projectID, month string) (*decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[projectID+"/"+month]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Store) SetBudget(_ context.Context, projectID, month string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[projectID+"/"+month] = amount
	return nil
}

// Len reports how many records the store holds across all projects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
