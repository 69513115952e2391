// Package statement turns an invoice and the play catalog into a billing
// statement: priced lines, aggregated totals, and the rendered text report.
package statement

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/noah-isme/theater-billing/internal/billing"
	"github.com/noah-isme/theater-billing/internal/catalog"
	"github.com/noah-isme/theater-billing/internal/invoice"
)

// Line is one priced performance on a statement.
type Line struct {
	PlayID   string        `json:"playId"`
	Play     string        `json:"play"`
	Audience int           `json:"audience"`
	Amount   billing.Money `json:"amount"`
	Credits  int64         `json:"credits"`
}

// Statement is the computed billing result for one invoice.
type Statement struct {
	Customer     string        `json:"customer"`
	Lines        []Line        `json:"lines"`
	TotalAmount  billing.Money `json:"totalAmount"`
	TotalCredits int64         `json:"totalCredits"`
}

// Generator prices invoices against a fixed catalog and tariff. The catalog
// and tariff are immutable after construction, so a Generator is safe for
// concurrent use.
type Generator struct {
	Catalog *catalog.Catalog
	Tariff  billing.Tariff
}

// Build resolves, prices, and aggregates every performance on the invoice in
// order. Any unknown play or genre aborts the whole build; no partial
// statement is returned.
func (g Generator) Build(inv invoice.Invoice) (Statement, error) {
	st := Statement{
		Customer: inv.Customer,
		Lines:    make([]Line, 0, len(inv.Performances)),
	}
	for _, perf := range inv.Performances {
		play, err := g.Catalog.Lookup(perf.PlayID)
		if err != nil {
			return Statement{}, err
		}
		amount, err := g.Tariff.AmountFor(play.Genre, perf.Audience)
		if err != nil {
			return Statement{}, fmt.Errorf("price %q: %w", perf.PlayID, err)
		}
		credits := g.Tariff.VolumeCreditsFor(play.Genre, perf.Audience)
		st.Lines = append(st.Lines, Line{
			PlayID:   perf.PlayID,
			Play:     play.Name,
			Audience: perf.Audience,
			Amount:   amount,
			Credits:  credits,
		})
		st.TotalAmount += amount
		st.TotalCredits += credits
	}
	return st, nil
}

// Render builds the statement and returns its text report.
func (g Generator) Render(inv invoice.Invoice) (string, error) {
	st, err := g.Build(inv)
	if err != nil {
		return "", err
	}
	return st.Text(), nil
}

// Text renders the statement report: header, one line per performance in
// invoice order, then the amount and credits footers. Lines are joined and
// terminated by the platform line separator.
func (st Statement) Text() string {
	sep := lineSeparator()
	var b strings.Builder
	b.WriteString("Statement for ")
	b.WriteString(st.Customer)
	b.WriteString(sep)
	for _, line := range st.Lines {
		fmt.Fprintf(&b, "  %s: %s (%d seats)%s", line.Play, FormatUSD(line.Amount), line.Audience, sep)
	}
	fmt.Fprintf(&b, "Amount owed is %s%s", FormatUSD(st.TotalAmount), sep)
	fmt.Fprintf(&b, "You earned %d credits%s", st.TotalCredits, sep)
	return b.String()
}

func lineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
