package statement

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/theater-billing/internal/billing"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount in minor units as a US-locale dollar string:
// symbol, thousands separators, exactly two decimals ($1,234.00).
func FormatUSD(amount billing.Money) string {
	return usd.Sprintf("$%.2f", float64(amount)/100)
}
