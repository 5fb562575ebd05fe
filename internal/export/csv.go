// Package export writes expense records as a spreadsheet-friendly CSV file.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"dompet/internal/core"
)

// ErrNothingToExport is returned for an empty record set.
var ErrNothingToExport = errors.New("no expenses to export")

// Header is the first CSV row.
var Header = []string{"Date", "Category", "Description", "Amount", "Type", "Added By"}

// FileName is the suggested download name for a period's export.
func FileName(p core.Period) string {
	return fmt.Sprintf("expenses-%s.csv", p.String())
}

// Type is the value of the Type column. Saving rows are labelled Income and
// every other row Expense, matching the spreadsheets users already keep.
func Type(c core.Category) string {
	if c.IsSaving() {
		return "Income"
	}
	return "Expense"
}

// WriteCSV writes the header and one row per record, in the given order.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.Date,
			string(e.Category),
			e.Description,
			e.Amount.String(),
			Type(e.Category),
			e.AddedBy(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write expense %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
