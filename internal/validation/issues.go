package validation

import "fmt"

// IssueCode identifies one kind of validation finding. Codes are stable:
// the host application matches on them when triaging import reports.
type IssueCode string

// Fatal / sheet-level codes.
const (
	CodeWorkbookUnreadable IssueCode = "WorkbookUnreadable"
	CodeExtractorException IssueCode = "ExtractorException"
	CodeNoLineItems        IssueCode = "NoLineItems"
)

// Header codes.
const (
	CodeMissingInvoiceNumber     IssueCode = "MissingInvoiceNumber"
	CodeMissingClientCode        IssueCode = "MissingClientCode"
	CodeMissingWalkInName        IssueCode = "MissingWalkInName"
	CodeMissingBusinessTaxNumber IssueCode = "MissingBusinessTaxNumber"
	CodeDateUnparseable          IssueCode = "DateUnparseable"
	CodeUnknownClient            IssueCode = "UnknownClient"
	CodeInactiveClient           IssueCode = "InactiveClient"
	CodeInvalidTaxNumberFormat   IssueCode = "InvalidTaxNumberFormat"
	CodeInvalidPaymentMethod     IssueCode = "InvalidPaymentMethod"
)

// Line codes.
const (
	CodeNumericParseError IssueCode = "NumericParseError"
	CodeInvalidTaxCode    IssueCode = "InvalidTaxCode"
	CodeMissingLineField  IssueCode = "MissingLineField"
	CodeInvalidQuantity   IssueCode = "InvalidQuantity"
	CodeInvalidUnitPrice  IssueCode = "InvalidUnitPrice"
)

// Template cross-check codes.
const (
	CodeForeignClientLocalCurrency IssueCode = "ForeignClientLocalCurrency"
	CodeForeignClientLocalCountry  IssueCode = "ForeignClientLocalCountry"
)

// Warning codes. Warnings never invalidate a sheet.
const (
	CodeWalkInNoTaxNumber     IssueCode = "WalkInNoTaxNumber"
	CodePaymentMethodMissing  IssueCode = "PaymentMethodMissing"
	CodeLineTotalMismatch     IssueCode = "LineTotalMismatch"
	CodeConsumerWithTaxNumber IssueCode = "ConsumerWithTaxNumber"
	CodeGovernmentNoTaxNumber IssueCode = "GovernmentNoTaxNumber"
)

// Issue is one finding on one sheet. Cell names the offending cell when the
// finding is tied to one.
type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
	Cell    string    `json:"cell,omitempty"`
}

func (i Issue) String() string {
	if i.Cell != "" {
		return fmt.Sprintf("[%s] %s (cell %s)", i.Code, i.Message, i.Cell)
	}
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}
