// Package report aggregates per-sheet validation outcomes and renders the
// operator-facing text report and the machine-readable JSON report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mikaelarth/FNEV4-sub000/internal/validation"
)

// Report collects the outcomes of one validate run.
type Report struct {
	File            string
	RunID           string
	ValidatedAt     time.Time
	RegistryOffline bool
	Sheets          []*validation.Outcome
}

// Totals are the run-level counters.
type Totals struct {
	Valid             int             `json:"valid"`
	Invalid           int             `json:"invalid"`
	WarningsOnly      int             `json:"warnings_only"`
	GrandTotalExclTax decimal.Decimal `json:"grand_total_excl_tax"`
}

// Totals computes the run counters from the collected sheets.
func (r *Report) Totals() Totals {
	totals := Totals{GrandTotalExclTax: decimal.Zero}
	for _, sheet := range r.Sheets {
		if sheet.Valid {
			totals.Valid++
			if sheet.WarningsOnly() {
				totals.WarningsOnly++
			}
			totals.GrandTotalExclTax = totals.GrandTotalExclTax.Add(sheet.TotalExclTax)
		} else {
			totals.Invalid++
		}
	}
	return totals
}

// AllValid reports whether every sheet passed.
func (r *Report) AllValid() bool {
	for _, sheet := range r.Sheets {
		if !sheet.Valid {
			return false
		}
	}
	return true
}

// Text renders the human-readable report.
func (r *Report) Text() string {
	totals := r.Totals()
	var b strings.Builder

	b.WriteString("SAGE 100 IMPORT VALIDATION REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "File:      %s\n", r.File)
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Validated: %s\n", r.ValidatedAt.Format(time.RFC3339))
	if r.RegistryOffline {
		b.WriteString("Registry:  offline — business-client invoices cannot be validated\n")
	}
	fmt.Fprintf(&b, "Sheets:    %d total, %d valid, %d invalid, %d with warnings only\n",
		len(r.Sheets), totals.Valid, totals.Invalid, totals.WarningsOnly)
	b.WriteString("\n")

	for _, sheet := range r.Sheets {
		status := "VALID"
		if !sheet.Valid {
			status = "INVALID"
		}
		fmt.Fprintf(&b, "Sheet %s — invoice %s [%s]\n", sheet.Sheet, orDash(sheet.InvoiceNumber), status)
		fmt.Fprintf(&b, "  template: %s, lines: %d, total excl. tax: %s\n",
			orDash(string(sheet.Template)), sheet.LineCount, sheet.TotalExclTax)
		for _, issue := range sheet.Errors {
			fmt.Fprintf(&b, "  ERROR   %s\n", issue)
		}
		for _, issue := range sheet.Warnings {
			fmt.Fprintf(&b, "  WARNING %s\n", issue)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Grand total excl. tax (valid sheets): %s\n", totals.GrandTotalExclTax)
	return b.String()
}

// WriteText writes the timestamped text report into dir and returns its path.
func (r *Report) WriteText(dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("validation_report_%s.txt", r.ValidatedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(r.Text()), 0644); err != nil {
		return "", fmt.Errorf("failed to write text report: %w", err)
	}
	return path, nil
}

// jsonSheet mirrors the JSON schema the host application consumes.
type jsonSheet struct {
	Sheet         string             `json:"sheet"`
	InvoiceNumber string             `json:"invoice_number"`
	Template      string             `json:"template"`
	Valid         bool               `json:"valid"`
	Errors        []validation.Issue `json:"errors"`
	Warnings      []validation.Issue `json:"warnings"`
	LineCount     int                `json:"line_count"`
	TotalExclTax  decimal.Decimal    `json:"total_excl_tax"`
}

type jsonReport struct {
	File        string      `json:"file"`
	RunID       string      `json:"run_id"`
	ValidatedAt time.Time   `json:"validated_at"`
	Sheets      []jsonSheet `json:"sheets"`
	Totals      Totals      `json:"totals"`
}

// JSON renders the machine-readable report.
func (r *Report) JSON() ([]byte, error) {
	out := jsonReport{
		File:        r.File,
		RunID:       r.RunID,
		ValidatedAt: r.ValidatedAt,
		Sheets:      make([]jsonSheet, 0, len(r.Sheets)),
		Totals:      r.Totals(),
	}
	for _, sheet := range r.Sheets {
		out.Sheets = append(out.Sheets, jsonSheet{
			Sheet:         sheet.Sheet,
			InvoiceNumber: sheet.InvoiceNumber,
			Template:      string(sheet.Template),
			Valid:         sheet.Valid,
			Errors:        emptyIfNil(sheet.Errors),
			Warnings:      emptyIfNil(sheet.Warnings),
			LineCount:     sheet.LineCount,
			TotalExclTax:  sheet.TotalExclTax,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteJSON writes the JSON report to the caller-chosen path.
func (r *Report) WriteJSON(path string) error {
	data, err := r.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func emptyIfNil(issues []validation.Issue) []validation.Issue {
	if issues == nil {
		return []validation.Issue{}
	}
	return issues
}
