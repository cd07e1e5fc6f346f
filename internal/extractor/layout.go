package extractor

// Fixed positional layout of a Sage 100 invoice sheet. All header cells sit
// in column A; product rows start at row 20 and span columns B..H.
const (
	HeaderColumn = "A"

	RowInvoiceNumber     = 3
	RowClientCode        = 5
	RowClientTaxNumber   = 6
	RowInvoiceDate       = 8
	RowPointOfSale       = 10
	RowClientDisplayName = 11
	RowWalkInRealName    = 13
	RowWalkInTaxNumber   = 15
	RowCountryCode       = 16
	RowOriginalReference = 17
	RowPaymentMethod     = 18
	RowCurrency          = 19

	FirstItemRow = 20

	ColProductCode = "B"
	ColDescription = "C"
	ColUnitPrice   = "D"
	ColQuantity    = "E"
	ColPackaging   = "F"
	ColTaxCode     = "G"
	ColAmountExcl  = "H"
)
