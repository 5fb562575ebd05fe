package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Living  Category = "Living"
	Playing Category = "Playing"
	Saving  Category = "Saving"
	Income  Category = "Income"
)

const (
	SourceBalance FundingSource = "Balance"
	SourceSaving  FundingSource = "Saving"
)

// DateLayout is the calendar date format used by expense records.
const DateLayout = "2006-01-02"

// UnknownContributor is shown when a profile carries neither name.
const UnknownContributor = "Unknown"

type (
	Category string

	// FundingSource tells where the money for a new transaction comes from.
	FundingSource string

	Profile struct {
		FullName string `json:"full_name,omitempty"`
		Username string `json:"username,omitempty"`
	}

	Expense struct {
		ID          string          `json:"id"`
		ProjectID   string          `json:"project_id,omitempty"`
		UserID      string          `json:"user_id,omitempty"`
		Amount      decimal.Decimal `json:"amount"`
		Category    Category        `json:"category"`
		Description string          `json:"description"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Profile     *Profile        `json:"profiles,omitempty"`
		CreatedAt   time.Time       `json:"created_at,omitempty"`
	}

	// Draft is a transaction as entered by a user, before it becomes one or
	// more expense records.
	Draft struct {
		Amount      decimal.Decimal
		Category    Category
		Description string
		Date        string
		Source      FundingSource
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidSource    = errors.New("invalid funding source")
	ErrEmptyDescription = errors.New("empty description")
)

// Categories returns the closed set of categories in display order.
func Categories() []Category {
	return []Category{Income, Living, Playing, Saving}
}

func (c Category) IsValid() bool {
	switch c {
	case Living, Playing, Saving, Income:
		return true
	}
	return false
}

// IsIncome reports whether the category adds to income. Everything else,
// unrecognised values included, is an expense.
func (c Category) IsIncome() bool {
	return c == Income
}

func (c Category) IsSaving() bool {
	return c == Saving
}

func (c Category) String() string {
	return string(c)
}

// DisplayName returns the full name, else the username, else "Unknown".
func (p *Profile) DisplayName() string {
	if p == nil {
		return UnknownContributor
	}
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	return UnknownContributor
}

// AddedBy is the contributor label printed next to a record.
func (e Expense) AddedBy() string {
	return e.Profile.DisplayName()
}

// Month returns the YYYY-MM prefix of the record date, or "" when the date
// is too short to carry one.
func (e Expense) Month() string {
	if len(e.Date) < 7 {
		return ""
	}
	return e.Date[:7]
}

// UnmarshalJSON decodes an expense coming from the data layer. The amount may
// be a number, a numeric string or garbage; garbage becomes zero.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type plain Expense
	aux := struct {
		*plain
		Amount json.RawMessage `json:"amount"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Amount = CoerceAmount(aux.Amount)
	return nil
}

func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (d Draft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !d.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := ValidateDate(d.Date); err != nil {
		return err
	}
	switch d.Source {
	case "", SourceBalance, SourceSaving:
	default:
		return ErrInvalidSource
	}
	return nil
}
