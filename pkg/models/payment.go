package models

import "strings"

// PaymentMethod is the normalized (lowercase English) payment method sent to
// the certification API.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileMoney  PaymentMethod = "mobile-money"
	PaymentBankTransfer PaymentMethod = "bank-transfer"
	PaymentCheck        PaymentMethod = "check"
	PaymentCredit       PaymentMethod = "credit"
)

// paymentAliases maps every accepted spelling, including the French forms
// Sage 100 exports, to the normalized method.
var paymentAliases = map[string]PaymentMethod{
	"cash":          PaymentCash,
	"especes":       PaymentCash,
	"card":          PaymentCard,
	"carte":         PaymentCard,
	"mobile-money":  PaymentMobileMoney,
	"bank-transfer": PaymentBankTransfer,
	"virement":      PaymentBankTransfer,
	"check":         PaymentCheck,
	"cheque":        PaymentCheck,
	"credit":        PaymentCredit,
}

// ResolvePaymentMethod normalizes a raw A18 cell to a method from the closed
// set. The match is case-insensitive.
func ResolvePaymentMethod(raw string) (PaymentMethod, bool) {
	method, ok := paymentAliases[strings.ToLower(strings.TrimSpace(raw))]
	return method, ok
}

// DefaultPaymentMethodCell is what the corrector writes for a missing A18:
// cash for the client divers account, bank transfer for business clients.
// Written in the French spelling the host application expects back.
func DefaultPaymentMethodCell(clientCode string) string {
	if clientCode == WalkInClientCode {
		return "ESPECES"
	}
	return "VIREMENT"
}
