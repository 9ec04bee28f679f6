package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.MustParse("nl-BE"))

// FormatPrice renders an amount the way the storefront shows prices:
// Belgian Dutch grouping with the currency symbol in front, e.g.
// "€ 1.234,56". The on-request state is handled by the caller.
func FormatPrice(amount float64, currency string) string {
	symbol := "€"
	if currency != "" && currency != "EUR" {
		symbol = currency
	}
	return symbol + " " + pricePrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
