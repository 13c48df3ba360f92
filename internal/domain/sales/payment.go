package sales

import "github.com/fuelsync/backend/internal/domain/shared"

// PaymentMethod is how a sale or payment was settled
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentCredit PaymentMethod = "credit"
)

// PaymentMethods lists the supported payment methods
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentUPI, PaymentCredit}

// ParsePaymentMethod validates a payment method string
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "Invalid payment method: %s", s)
}

// ResolvePaymentMethod applies the default: credit when a creditor is given, else cash
func ResolvePaymentMethod(requested string, hasCreditor bool) (PaymentMethod, error) {
	if requested == "" {
		if hasCreditor {
			return PaymentCredit, nil
		}
		return PaymentCash, nil
	}
	m, err := ParsePaymentMethod(requested)
	if err != nil {
		return "", err
	}
	if m == PaymentCredit && !hasCreditor {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Credit sales require a creditor")
	}
	return m, nil
}
