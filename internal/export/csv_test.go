package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/core"
)

func TestWriteCSV(t *testing.T) {
	records := []core.Expense{
		{ID: "1", Date: "2024-01-05", Category: core.Income, Description: "Salary", Amount: decimal.NewFromInt(100), Profile: &core.Profile{FullName: "Ani"}},
		{ID: "2", Date: "2024-01-10", Category: core.Living, Description: `Rice, "premium"`, Amount: decimal.RequireFromString("40.5")},
		{ID: "3", Date: "2024-02-01", Category: core.Saving, Description: "Deposit", Amount: decimal.NewFromInt(20), Profile: &core.Profile{Username: "budi"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "Date,Category,Description,Amount,Type,Added By\n" +
		"2024-01-05,Income,Salary,100,Expense,Ani\n" +
		"2024-01-10,Living,\"Rice, \"\"premium\"\"\",40.5,Expense,Unknown\n" +
		"2024-02-01,Saving,Deposit,20,Income,budi\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)
	assert.True(t, errors.Is(err, ErrNothingToExport))
	assert.Zero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	p, err := core.ParsePeriod("2024-01")
	require.NoError(t, err)
	assert.Equal(t, "expenses-2024-01.csv", FileName(p))
	assert.Equal(t, "expenses-all.csv", FileName(core.AllTime))
}
