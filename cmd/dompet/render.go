package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"dompet/internal/core"
	"dompet/internal/services"
)

func renderReport(w io.Writer, r *services.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	label := r.Selector.Period.String()
	if r.Selector.Period.IsAllTime() {
		label = "all time"
	}

	fmt.Fprintf(tw, "Period\t%s\n", label)
	fmt.Fprintf(tw, "Income\t%s\n", core.FormatRupiah(r.Summary.PeriodIncome))
	fmt.Fprintf(tw, "Expenses\t%s\n", core.FormatRupiah(r.Summary.PeriodExpenses))
	fmt.Fprintf(tw, "Balance\t%s\n", core.FormatRupiah(r.Summary.Balance))
	fmt.Fprintf(tw, "Savings\t%s\n", core.FormatRupiah(r.Summary.TotalSavings))

	source := "average"
	if r.BudgetStored {
		source = "set"
	}
	fmt.Fprintf(tw, "Budget %s\t%s of %s (%s, %s)\n", r.BudgetMonth,
		core.FormatRupiah(r.BudgetSpent), core.FormatRupiah(r.Budget), source, r.BudgetStatus)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Breakdown) > 0 {
		fmt.Fprintln(w, "\nBy category")
		for _, b := range r.Breakdown {
			fmt.Fprintf(tw, "  %s\t%s\n", b.Category, core.FormatRupiah(b.Amount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Contributors) > 0 {
		fmt.Fprintln(w, "\nContributors")
		for _, c := range r.Contributors {
			fmt.Fprintf(tw, "  %s\t%s\n", c.UserID, c.Name)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nTransactions (%d)\n", len(r.Expenses))
	if len(r.Expenses) == 0 {
		fmt.Fprintln(w, "  No transactions")
		return nil
	}
	fmt.Fprintln(tw, "  DATE\tCATEGORY\tDESCRIPTION\tAMOUNT\tBY")
	for _, e := range r.Expenses {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			e.Date, e.Category, e.Description, core.FormatRupiah(e.Amount), e.AddedBy())
	}
	return tw.Flush()
}
