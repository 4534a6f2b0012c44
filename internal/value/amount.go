package value

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is an exact rational monetary value. The zero value is 0.
// Amounts are immutable; every operation returns a new Amount.
type Amount struct {
	r *big.Rat
}

// NullAmount is an Amount that may be absent, in the manner of decimal.NullDecimal.
type NullAmount struct {
	Amount Amount
	Valid  bool
}

// Zero is the zero Amount.
var Zero = Amount{}

// NewAmount returns num/den. It panics if den is zero.
func NewAmount(num, den int64) Amount {
	return Amount{r: big.NewRat(num, den)}
}

// FromInt returns n as an Amount.
func FromInt(n int64) Amount {
	return Amount{r: new(big.Rat).SetInt64(n)}
}

// FromDecimal converts a decimal exactly.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{r: d.Rat()}
}

func (a Amount) rat() *big.Rat {
	if a.r == nil {
		return new(big.Rat)
	}
	return a.r
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{r: new(big.Rat).Add(a.rat(), b.rat())}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{r: new(big.Rat).Sub(a.rat(), b.rat())}
}

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount {
	return Amount{r: new(big.Rat).Mul(a.rat(), b.rat())}
}

// Quo returns a / n. It panics if n is zero.
func (a Amount) Quo(n int64) Amount {
	return Amount{r: new(big.Rat).Quo(a.rat(), new(big.Rat).SetInt64(n))}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{r: new(big.Rat).Neg(a.rat())}
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.rat().Cmp(b.rat())
}

// Equal reports whether a == b.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Sign returns -1, 0 or +1.
func (a Amount) Sign() int {
	return a.rat().Sign()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

// Rat returns a copy of the underlying rational.
func (a Amount) Rat() *big.Rat {
	return new(big.Rat).Set(a.rat())
}

// Decimal rounds a to the given number of decimal places.
func (a Amount) Decimal(places int32) decimal.Decimal {
	r := a.rat()
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return num.DivRound(den, places)
}

// StringFixed formats a with exactly the given number of decimal places.
func (a Amount) StringFixed(places int32) string {
	return a.Decimal(places).StringFixed(places)
}

// Exact formats a as a decimal with at least minPlaces places and as many
// more as the value needs. Values with no finite decimal form, such as 1/3,
// are written as "num/den". ParseExact reads either form back.
//
//	3/200 -> "0.015", 499/10 -> "49.90" (minPlaces 2)
func (a Amount) Exact(minPlaces int32) string {
	r := a.rat()
	places, ok := decimalPlaces(r.Denom())
	if !ok {
		return r.RatString()
	}
	places = max(places, minPlaces)
	return a.Decimal(places).StringFixed(places)
}

// decimalPlaces returns k such that den divides 10^k, or false if den has a
// prime factor other than 2 and 5.
func decimalPlaces(den *big.Int) (int32, bool) {
	d := new(big.Int).Set(den)
	rem := new(big.Int)
	two, five := big.NewInt(2), big.NewInt(5)

	count := func(p *big.Int) int32 {
		var n int32
		for {
			q, m := new(big.Int).QuoRem(d, p, rem)
			if m.Sign() != 0 {
				return n
			}
			d = q
			n++
		}
	}
	twos := count(two)
	fives := count(five)
	if !d.IsInt64() || d.Int64() != 1 {
		return 0, false
	}
	return max(twos, fives), true
}

// String returns the exact value as "num/den", or an integer when den is 1.
func (a Amount) String() string {
	return a.rat().RatString()
}
