// Package money formats integer minor-unit amounts for display.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/phenrril/maison/internal/domain"
)

var symbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

var printer = message.NewPrinter(language.English)

// Validate returns the canonical ISO code or ErrUnknownCurrency.
func Validate(code string) (string, error) {
	u, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
	}
	return u.String(), nil
}

// Scale is the number of minor-unit digits of the currency.
func Scale(code string) int {
	u, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(u)
	return scale
}

// Format renders 5000000 NGN as "₦50,000.00".
func Format(amount int64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	sym, ok := symbols[code]
	if !ok {
		sym = code + " "
	}
	return format(amount, code, sym)
}

// FormatCode always prefixes the ISO code, as in "NGN 50,000.00", for
// outputs limited to Latin-1.
func FormatCode(amount int64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return format(amount, code, code+" ")
}

func format(amount int64, code, sym string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	scale := Scale(code)
	div := int64(1)
	for i := 0; i < scale; i++ {
		div *= 10
	}
	out := sym + printer.Sprintf("%d", amount/div)
	if scale > 0 {
		out += fmt.Sprintf(".%0*d", scale, amount%div)
	}
	if neg {
		return "-" + out
	}
	return out
}
