package boat

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a daily rate in US dollars, e.g. "USD 1,250.00".
func FormatPrice(amount float64) string {
	return printer.Sprint(currency.USD.Amount(amount))
}

// FormatLength renders a length in feet with at most one decimal.
func FormatLength(feet float64) string {
	return printer.Sprintf("%v ft", number.Decimal(feet, number.MaxFractionDigits(1)))
}

// FormatMiles renders a distance in miles with one decimal.
func FormatMiles(miles float64) string {
	return printer.Sprintf("%v mi", number.Decimal(miles, number.MaxFractionDigits(1), number.MinFractionDigits(1)))
}
