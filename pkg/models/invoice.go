package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Template is the DGI invoice regime that decides which client fields are
// required on a certified invoice.
type Template string

const (
	TemplateB2B Template = "B2B" // business client with NCC
	TemplateB2C Template = "B2C" // consumer / client divers
	TemplateB2G Template = "B2G" // government entity
	TemplateB2F Template = "B2F" // foreign client, non-XOF invoice
)

// KnownTemplates lists every accepted template code.
var KnownTemplates = []Template{TemplateB2B, TemplateB2C, TemplateB2G, TemplateB2F}

// ParseTemplate returns the template for a code, or false when the code is
// not one of the four regimes.
func ParseTemplate(code string) (Template, bool) {
	switch Template(code) {
	case TemplateB2B, TemplateB2C, TemplateB2G, TemplateB2F:
		return Template(code), true
	}
	return "", false
}

// WalkInClientCode is the reserved Sage 100 code for the anonymous
// "client divers" account.
const WalkInClientCode = "1999"

// LineTolerance is the accepted drift between a product row's amount cell
// and unit price times quantity.
var LineTolerance = decimal.New(1, -2) // 0.01

// InvoiceRecord is one extracted invoice, one per workbook sheet.
// It carries raw header values exactly as read; judging them is the
// validator's job.
type InvoiceRecord struct {
	SheetName string

	InvoiceNumber string
	InvoiceDate   time.Time
	DateRaw       string // original A8 content, kept for reporting
	DateParsed    bool

	ClientCode            string
	ClientTaxNumberHeader string // A6, business NCC
	ClientDisplayName     string // A11
	WalkInRealName        string // A13, client divers only
	WalkInTaxNumber       string // A15, client divers only

	PointOfSale string
	CountryCode string // A16, extended 4-template layout
	Currency    string // A19, extended 4-template layout

	PaymentMethod            string
	OriginalInvoiceReference string // nonempty marks a credit note (facture d'avoir)

	Items []InvoiceLine
}

// IsWalkIn reports whether the invoice belongs to the client divers branch.
func (r *InvoiceRecord) IsWalkIn() bool {
	return r.ClientCode == WalkInClientCode
}

// IsCreditNote reports whether the sheet is a facture d'avoir.
func (r *InvoiceRecord) IsCreditNote() bool {
	return r.OriginalInvoiceReference != ""
}

// TotalExclTax sums the harvested line amounts.
func (r *InvoiceRecord) TotalExclTax() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.AmountExclTax)
	}
	return total
}

// InvoiceLine is one product row (row >= 20) of an invoice sheet.
type InvoiceLine struct {
	Row           int // 1-based workbook row
	ProductCode   string
	Description   string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	Packaging     string
	TaxCode       string // raw G cell: symbolic code or numeric rate
	AmountExclTax decimal.Decimal

	// ParseErrors records the D/E/H cells that failed numeric parsing;
	// the corresponding field is zero so downstream checks can continue.
	ParseErrors []string
}

// ClientRecord is one row of the host application's client registry.
type ClientRecord struct {
	Code            string
	Name            string
	TaxNumber       string
	DefaultTemplate Template
	IsActive        bool
}
