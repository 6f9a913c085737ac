package planning

import (
	"math"

	"github.com/shopspring/decimal"
)

// cents is the rounding applied to every reported money total.
const cents = 2

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// amount returns price·qty unrounded; totals are rounded once with Round(cents).
func amount(price, qty float64) decimal.Decimal {
	return money(price).Mul(money(qty))
}

// share returns part/whole as a percentage, 0 when whole is 0 or infinite.
func share(part, whole float64) float64 {
	if whole == 0 || math.IsInf(whole, 0) {
		return 0
	}

	return 100 * part / whole
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
