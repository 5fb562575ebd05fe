package ledger

import (
	"github.com/google/uuid"

	"dompet/internal/core"
)

// IDFunc generates record identifiers.
type IDFunc func() string

// NewID is the default IDFunc.
func NewID() string {
	return uuid.NewString()
}

// Entries turns a validated draft into the records to store. A draft paid
// from savings also produces a negative Saving record covering the amount.
func Entries(d core.Draft, projectID, userID string, newID IDFunc) []core.Expense {
	if newID == nil {
		newID = NewID
	}

	out := []core.Expense{{
		ID:          newID(),
		ProjectID:   projectID,
		UserID:      userID,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
	}}

	if d.Source == core.SourceSaving {
		out = append(out, core.Expense{
			ID:          newID(),
			ProjectID:   projectID,
			UserID:      userID,
			Amount:      d.Amount.Neg(),
			Category:    core.Saving,
			Description: "Cover for: " + d.Description,
			Date:        d.Date,
		})
	}
	return out
}
