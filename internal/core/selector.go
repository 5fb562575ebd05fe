package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Newest  SortOrder = "newest"
	Oldest  SortOrder = "oldest"
	Highest SortOrder = "highest"
	Lowest  SortOrder = "lowest"
)

// AllKey disables the category or contributor filter.
const AllKey = "All"

var (
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidFilter    = errors.New("invalid category filter")
)

type (
	SortOrder string

	// CategoryFilter is "All" or one of the categories.
	CategoryFilter string

	// Selector is the view state chosen by the user. It is passed by value
	// into every recomputation; the With* methods return modified copies.
	Selector struct {
		Period      Period
		Category    CategoryFilter
		Contributor string // "All" or a user ID
		Sort        SortOrder
	}
)

// AllCategories matches every record.
const AllCategories CategoryFilter = AllKey

// AllContributors matches every record, including unattributed ones.
const AllContributors = AllKey

// DefaultSelector is the state a view starts in: the current month, no
// filters, newest first.
func DefaultSelector(now time.Time) Selector {
	return Selector{
		Period:      MonthOf(now),
		Category:    AllCategories,
		Contributor: AllContributors,
		Sort:        Newest,
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
	}
	return o, nil
}

func (o SortOrder) IsValid() bool {
	switch o {
	case Newest, Oldest, Highest, Lowest:
		return true
	}
	return false
}

func ParseCategoryFilter(s string) (CategoryFilter, error) {
	f := CategoryFilter(strings.TrimSpace(s))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return f, nil
}

func (f CategoryFilter) IsValid() bool {
	return f == AllCategories || Category(f).IsValid()
}

// Matches reports whether a record of category c passes the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return f == AllCategories || Category(f) == c
}

func (s Selector) WithPeriod(p Period) Selector {
	s.Period = p
	return s
}

func (s Selector) WithCategory(f CategoryFilter) Selector {
	s.Category = f
	return s
}

func (s Selector) WithContributor(userID string) Selector {
	if strings.TrimSpace(userID) == "" {
		userID = AllContributors
	}
	s.Contributor = userID
	return s
}

func (s Selector) WithSort(o SortOrder) Selector {
	s.Sort = o
	return s
}

func (s Selector) Validate() error {
	if !s.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, s.Category)
	}
	if !s.Sort.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortOrder, s.Sort)
	}
	if strings.TrimSpace(s.Contributor) == "" {
		return errors.New("empty contributor filter")
	}
	return nil
}
