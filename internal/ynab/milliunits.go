package ynab

import (
	"math"
	"strconv"
	"strings"
)

// Milliunits represents 1/1000 of a currency unit. It is the only amount
// representation transmitted to the YNAB API; the decimal display form is
// always derived from it.
type Milliunits int64

// MilliunitsFromAmount converts a display amount (e.g. dollars) to
// milliunits. Rounding is half-to-even, observable at exact half-milliunit
// boundaries; it must not be changed to half-away-from-zero.
func MilliunitsFromAmount(amount float64) Milliunits {
	return Milliunits(math.RoundToEven(amount * 1000))
}

// Amount returns the display-unit value of m. Exact for any input; no
// rounding happens in this direction.
func (m Milliunits) Amount() float64 {
	return float64(m) / 1000
}

// Negate changes the sign of m to the opposite.
func (m Milliunits) Negate() Milliunits {
	return m * -1
}

func (m Milliunits) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// Format renders m as a currency string, e.g. "$1,234.56".
func (m Milliunits) Format() string {
	a := int64(m)
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	// Tenths of a cent round half up for display only; arithmetic always
	// stays in milliunits.
	cents := (a + 5) / 10
	units := strconv.FormatInt(cents/100, 10)

	var grouped strings.Builder
	lead := len(units) % 3
	if lead > 0 {
		grouped.WriteString(units[:lead])
	}
	for i := lead; i < len(units); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(units[i : i+3])
	}

	rem := cents % 100
	return "$" + sign + grouped.String() + "." + twoDigits(rem)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// IsFinite reports whether amount can be converted to milliunits. NaN and
// infinities are caller contract violations and must be rejected before
// conversion.
func IsFinite(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}
