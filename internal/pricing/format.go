package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNaira renders an amount as ₦520,000.
func FormatNaira(amount int64) string {
	return printer.Sprintf("₦%d", amount)
}

// FormatAmount renders an amount with thousands separators and an ISO prefix, e.g. NGN 520,000.
func FormatAmount(amount int64) string {
	return printer.Sprintf("NGN %d", amount)
}
