package testsupport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-parambridge/pkg/params"
)

// Money is an amount in minor units (cents). It deliberately has no String
// method so tests can tell converter output apart from fmt output.
type Money int64

// ParseMoney parses "10.50" style amounts into minor units.
func ParseMoney(text string) (Money, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, params.ErrEmptyValue
	}
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")

	whole, frac, found := strings.Cut(text, ".")
	if found && len(frac) != 2 {
		return 0, fmt.Errorf("testsupport: money %q must have two decimals", text)
	}
	if !found {
		frac = "00"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("testsupport: money %q: %w", text, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("testsupport: money %q: %w", text, err)
	}
	amount := units*100 + cents
	if negative {
		amount = -amount
	}
	return Money(amount), nil
}

// FormatMoney renders minor units as "10.50".
func FormatMoney(m Money) (string, error) {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100), nil
}

// MoneyConverter returns the converter tests register for Money.
func MoneyConverter() params.Func[Money] {
	return params.NewConverter(ParseMoney, FormatMoney)
}
