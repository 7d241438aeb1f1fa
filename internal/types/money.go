// README: Common money value object used across modules.
package types

import (
	"fmt"
	"strings"
)

// DefaultCurrency applies when a request or plan leaves the currency blank.
const DefaultCurrency = "INR"

type Money struct {
	Amount   float64 `json:"amount" firestore:"amount"`
	Currency string  `json:"currency" firestore:"currency"`
}

// NormalizeCurrency upper-cases a currency code, falling back to def.
func NormalizeCurrency(code, def string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = strings.ToUpper(strings.TrimSpace(def))
	}
	if code == "" {
		return DefaultCurrency
	}
	return code
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", NormalizeCurrency(m.Currency, ""), m.Amount)
}
