// Package validation classifies extracted Sage 100 invoices into DGI
// templates and applies the per-template field rules. The validator is a
// pure function over an InvoiceRecord plus a registry lookup; formatting the
// findings is the report package's job.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
	"github.com/Mikaelarth/FNEV4-sub000/internal/registry"
	"github.com/Mikaelarth/FNEV4-sub000/pkg/models"
)

// Outcome is the validator's verdict for one sheet.
type Outcome struct {
	Sheet         string
	InvoiceNumber string
	Template      models.Template
	Valid         bool
	Errors        []Issue
	Warnings      []Issue
	LineCount     int
	TotalExclTax  decimal.Decimal
}

// WarningsOnly reports a sheet that passed with at least one warning.
func (o *Outcome) WarningsOnly() bool {
	return o.Valid && len(o.Warnings) > 0
}

func (o *Outcome) addError(code IssueCode, cell, format string, args ...interface{}) {
	o.Errors = append(o.Errors, Issue{Code: code, Cell: cell, Message: fmt.Sprintf(format, args...)})
}

func (o *Outcome) addWarning(code IssueCode, cell, format string, args ...interface{}) {
	o.Warnings = append(o.Warnings, Issue{Code: code, Cell: cell, Message: fmt.Sprintf(format, args...)})
}

func (o *Outcome) hasError(code IssueCode) bool {
	for _, issue := range o.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Validator applies the DGI template rules.
type Validator struct {
	registry      registry.Registry
	localCurrency string
	issuerCountry string
	log           zerolog.Logger
}

// New creates a validator. localCurrency and issuerCountry feed the B2F
// cross-checks (XOF and CI for the host application).
func New(reg registry.Registry, localCurrency, issuerCountry string) *Validator {
	return &Validator{
		registry:      reg,
		localCurrency: strings.ToUpper(localCurrency),
		issuerCountry: strings.ToUpper(issuerCountry),
		log:           logger.WithComponent("validator"),
	}
}

// Validate produces the outcome for one extracted invoice.
func (v *Validator) Validate(ctx context.Context, record *models.InvoiceRecord) *Outcome {
	outcome := &Outcome{
		Sheet:         record.SheetName,
		InvoiceNumber: record.InvoiceNumber,
		LineCount:     len(record.Items),
		TotalExclTax:  record.TotalExclTax(),
	}

	v.checkHeaders(record, outcome)

	if record.IsWalkIn() {
		v.checkWalkInBranch(record, outcome)
	} else if record.ClientCode != "" {
		v.checkBusinessBranch(ctx, record, outcome)
	}

	v.checkTemplateRules(record, outcome)
	v.checkPaymentMethod(record, outcome)
	v.checkLines(record, outcome)

	if len(record.Items) == 0 {
		outcome.addError(CodeNoLineItems, "", "no product rows found from row %d onward", 20)
	}

	outcome.Valid = len(outcome.Errors) == 0

	v.log.Debug().
		Str("sheet", record.SheetName).
		Str("template", string(outcome.Template)).
		Bool("valid", outcome.Valid).
		Int("errors", len(outcome.Errors)).
		Int("warnings", len(outcome.Warnings)).
		Msg("Sheet validated")

	return outcome
}

func (v *Validator) checkHeaders(record *models.InvoiceRecord, outcome *Outcome) {
	if record.InvoiceNumber == "" {
		outcome.addError(CodeMissingInvoiceNumber, "A3", "invoice number is empty")
	}
	if record.ClientCode == "" {
		outcome.addError(CodeMissingClientCode, "A5", "client code is empty")
	}
	if !record.DateParsed {
		outcome.addError(CodeDateUnparseable, "A8",
			"invoice date %q is neither a serial day count nor an ISO date", record.DateRaw)
	}
}

// checkWalkInBranch validates a client divers invoice. The resolved template
// is always B2C; a declared NCC is kept but does not change the regime.
func (v *Validator) checkWalkInBranch(record *models.InvoiceRecord, outcome *Outcome) {
	outcome.Template = models.TemplateB2C

	if record.WalkInRealName == "" {
		outcome.addError(CodeMissingWalkInName, "A13",
			"client divers invoice carries no real client name")
	}

	if record.WalkInTaxNumber == "" {
		outcome.addWarning(CodeWalkInNoTaxNumber, "A15",
			"client divers without NCC, default B2C template applies")
		return
	}
	if !models.ValidNCC(strings.ToUpper(record.WalkInTaxNumber)) {
		outcome.addError(CodeInvalidTaxNumberFormat, "A15",
			"NCC %q does not match the seven-digits-plus-letter grammar", record.WalkInTaxNumber)
	}
}

func (v *Validator) checkBusinessBranch(ctx context.Context, record *models.InvoiceRecord, outcome *Outcome) {
	client, err := v.registry.Lookup(ctx, record.ClientCode)
	switch {
	case errors.Is(err, registry.ErrClientNotFound):
		outcome.addError(CodeUnknownClient, "A5",
			"client code %q not found in the registry", record.ClientCode)
	case err != nil:
		outcome.addError(CodeUnknownClient, "A5",
			"registry lookup for %q failed: %v", record.ClientCode, err)
	case !client.IsActive:
		outcome.addError(CodeInactiveClient, "A5",
			"client %q (%s) is inactive in the registry", record.ClientCode, client.Name)
	default:
		outcome.Template = client.DefaultTemplate
	}

	if record.ClientTaxNumberHeader == "" {
		outcome.addError(CodeMissingBusinessTaxNumber, "A6",
			"business client invoice carries no NCC")
		return
	}
	if !models.ValidNCC(strings.ToUpper(record.ClientTaxNumberHeader)) {
		outcome.addError(CodeInvalidTaxNumberFormat, "A6",
			"NCC %q does not match the seven-digits-plus-letter grammar", record.ClientTaxNumberHeader)
	}
}

// checkTemplateRules applies the per-template cross-checks once the
// template is resolved. They also catch registry rows mis-flagged with a
// template that does not fit the invoice data.
func (v *Validator) checkTemplateRules(record *models.InvoiceRecord, outcome *Outcome) {
	taxNumber := record.ClientTaxNumberHeader
	taxCell := "A6"
	if record.IsWalkIn() {
		taxNumber = record.WalkInTaxNumber
		taxCell = "A15"
	}

	switch outcome.Template {
	case models.TemplateB2B:
		if taxNumber == "" && !outcome.hasError(CodeMissingBusinessTaxNumber) {
			outcome.addError(CodeMissingBusinessTaxNumber, taxCell,
				"B2B invoice requires an NCC")
		}

	case models.TemplateB2C:
		// Walk-in invoices already reported their NCC state on the branch.
		if !record.IsWalkIn() && taxNumber != "" {
			outcome.addWarning(CodeConsumerWithTaxNumber, taxCell,
				"B2C invoice carries an NCC; verify the client template")
		}

	case models.TemplateB2G:
		if taxNumber == "" {
			outcome.addWarning(CodeGovernmentNoTaxNumber, taxCell,
				"B2G invoice without NCC")
		}

	case models.TemplateB2F:
		if taxNumber == "" && !outcome.hasError(CodeMissingBusinessTaxNumber) {
			outcome.addError(CodeMissingBusinessTaxNumber, taxCell,
				"B2F invoice requires an NCC")
		}
		if record.Currency != "" && strings.ToUpper(record.Currency) == v.localCurrency {
			outcome.addError(CodeForeignClientLocalCurrency, "A19",
				"B2F invoice billed in the local currency %s", v.localCurrency)
		}
		if record.CountryCode != "" && strings.ToUpper(record.CountryCode) == v.issuerCountry {
			outcome.addError(CodeForeignClientLocalCountry, "A16",
				"B2F invoice addressed to the issuer country %s", v.issuerCountry)
		}
	}
}

func (v *Validator) checkPaymentMethod(record *models.InvoiceRecord, outcome *Outcome) {
	if record.PaymentMethod == "" {
		outcome.addWarning(CodePaymentMethodMissing, "A18",
			"payment method missing, corrector will fill a default")
		return
	}
	if _, ok := models.ResolvePaymentMethod(record.PaymentMethod); !ok {
		outcome.addError(CodeInvalidPaymentMethod, "A18",
			"payment method %q is not in the allowed set", record.PaymentMethod)
	}
}

func (v *Validator) checkLines(record *models.InvoiceRecord, outcome *Outcome) {
	for _, line := range record.Items {
		v.checkLine(record, line, outcome)
	}
}

func (v *Validator) checkLine(record *models.InvoiceRecord, line models.InvoiceLine, outcome *Outcome) {
	for _, cell := range line.ParseErrors {
		outcome.addError(CodeNumericParseError, cell, "cell is not a number")
	}

	if line.Description == "" {
		outcome.addError(CodeMissingLineField, fmt.Sprintf("C%d", line.Row),
			"product row %d has no description", line.Row)
	}

	if !line.Quantity.IsPositive() {
		outcome.addError(CodeInvalidQuantity, fmt.Sprintf("E%d", line.Row),
			"quantity %s must be strictly positive", line.Quantity)
	}

	if line.UnitPrice.IsZero() {
		outcome.addError(CodeInvalidUnitPrice, fmt.Sprintf("D%d", line.Row),
			"unit price is zero")
	} else if line.UnitPrice.IsNegative() && !record.IsCreditNote() {
		outcome.addError(CodeInvalidUnitPrice, fmt.Sprintf("D%d", line.Row),
			"negative unit price %s outside a credit note", line.UnitPrice)
	}

	if line.TaxCode == "" {
		outcome.addError(CodeMissingLineField, fmt.Sprintf("G%d", line.Row),
			"product row %d has no tax code", line.Row)
	} else if _, ok := models.ResolveTaxCode(line.TaxCode); !ok {
		outcome.addError(CodeInvalidTaxCode, fmt.Sprintf("G%d", line.Row),
			"tax code %q is neither a known code nor a mappable rate", line.TaxCode)
	}

	// Consistency only makes sense when all three numeric cells parsed.
	if len(line.ParseErrors) == 0 {
		expected := line.UnitPrice.Mul(line.Quantity)
		if line.AmountExclTax.Sub(expected).Abs().GreaterThan(models.LineTolerance) {
			outcome.addWarning(CodeLineTotalMismatch, fmt.Sprintf("H%d", line.Row),
				"line total %s differs from %s x %s = %s",
				line.AmountExclTax, line.UnitPrice, line.Quantity, expected)
		}
	}
}
