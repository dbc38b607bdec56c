// Copyright 2024 The Husk Scheme Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/nakayama900/husk-scheme/internal/core/herr"
)

// numRank orders the promotion lattice Integer < Rational < Real < Complex
// (spec section 9).
func numRank(v Value) (int, bool) {
	switch v.(type) {
	case *Integer:
		return 0, true
	case *Rational:
		return 1, true
	case Real:
		return 2, true
	case Complex:
		return 3, true
	default:
		return 0, false
	}
}

// apdCtx is the shared decimal context used as the common arithmetic medium
// when two numbers of different exactness/precision need to be combined,
// mirroring the teacher's internal/core/adt/binop.go apdCtx and its
// numFunc(z, x, y *apd.Decimal) pattern.
var apdCtx = apd.BaseContext.WithPrecision(60)

func toDecimal(v Value) (*apd.Decimal, error) {
	switch x := v.(type) {
	case *Integer:
		d := new(apd.Decimal)
		d.SetString(x.X.String())
		return d, nil
	case *Rational:
		num := new(apd.Decimal)
		den := new(apd.Decimal)
		num.SetString(x.X.Num().String())
		den.SetString(x.X.Denom().String())
		d := new(apd.Decimal)
		_, err := apdCtx.Quo(d, num, den)
		return d, err
	case Real:
		d, _, err := apd.NewFromString(formatFloat(float64(x)))
		return d, err
	default:
		return nil, herr.ErrTypeMismatch("real number", v)
	}
}

func formatFloat(f float64) string {
	return big.NewFloat(f).Text('g', -1)
}

// NumFunc is a binary decimal operation in the teacher's numFunc shape:
// it computes z = op(x, y) using the shared apd context.
type NumFunc func(z, x, y *apd.Decimal) (apd.Condition, error)

// Promote finds the join of a and b's ranks in the promotion lattice,
// converts both to that rank, performs op via the apd decimal medium for
// the Integer/Rational/Real tiers, and canonicalizes the result back down
// to the most exact representation that is still faithful (spec section 9:
// "promote both operands to their join, perform the operation, then
// canonicalise downward where exactness is preserved").
//
// Promote does not handle Complex: apd has no complex-number mode, so if
// either operand is Complex it returns a NotImplemented error.
// PromoteComplex combines complex operands in complex128 instead.
func Promote(a, b Value, op NumFunc) (Value, error) {
	ra, oka := numRank(a)
	rb, okb := numRank(b)
	if !oka {
		return nil, herr.ErrTypeMismatch("number", a)
	}
	if !okb {
		return nil, herr.ErrTypeMismatch("number", b)
	}
	rank := ra
	if rb > rank {
		rank = rb
	}
	if rank == 3 {
		return nil, herr.ErrNotImplemented("complex arithmetic must use PromoteComplex")
	}

	da, err := toDecimal(a)
	if err != nil {
		return nil, err
	}
	db, err := toDecimal(b)
	if err != nil {
		return nil, err
	}
	var z apd.Decimal
	if _, err := op(&z, da, db); err != nil {
		return nil, err
	}

	switch rank {
	case 0: // Integer, or Rational when the result is not integral (e.g. 2/4)
		if i, ok := decimalToBigInt(&z); ok {
			return &Integer{X: i}, nil
		}
		return Canonicalize(decimalToRational(&z)), nil
	case 1: // Rational
		return Canonicalize(decimalToRational(&z)), nil
	default: // Real
		f, err := z.Float64()
		if err != nil {
			return nil, err
		}
		return Real(f), nil
	}
}

func decimalToBigInt(d *apd.Decimal) (*big.Int, bool) {
	i := new(apd.Decimal)
	cond, err := apdCtx.RoundToIntegralExact(i, d)
	if err != nil || cond.Inexact() {
		return nil, false
	}
	bi, ok := new(big.Int).SetString(i.Text('f'), 10)
	return bi, ok
}

func decimalToRational(d *apd.Decimal) *Rational {
	// apd.Decimal is coeff * 10^exponent; express that exactly as a
	// big.Rat, then let the canonicalizer reduce it.
	coeff := new(big.Int).Set(&d.Coeff)
	if d.Negative {
		coeff.Neg(coeff)
	}
	r := new(big.Rat).SetInt(coeff)
	if d.Exponent > 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Exponent)), nil)
		r.Mul(r, new(big.Rat).SetInt(scale))
	} else if d.Exponent < 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-d.Exponent)), nil)
		r.Quo(r, new(big.Rat).SetInt(scale))
	}
	return &Rational{X: r}
}

// Canonicalize downgrades an exact Rational whose denominator has reduced
// to 1 into an Integer (spec section 9: "2/2 -> 1"). big.Rat already keeps
// the fraction in lowest terms, so this only has to check the denominator.
func Canonicalize(v Value) Value {
	r, ok := v.(*Rational)
	if !ok {
		return v
	}
	if r.X.IsInt() {
		return &Integer{X: new(big.Int).Set(r.X.Num())}
	}
	return v
}

// PromoteComplex combines a and b as complex128, widening whichever side is
// not already Complex.
func PromoteComplex(a, b Value, op func(x, y complex128) complex128) (Value, error) {
	ca, err := toComplex(a)
	if err != nil {
		return nil, err
	}
	cb, err := toComplex(b)
	if err != nil {
		return nil, err
	}
	z := op(ca, cb)
	return Complex{Re: real(z), Im: imag(z)}, nil
}

func toComplex(v Value) (complex128, error) {
	switch x := v.(type) {
	case Complex:
		return complex(x.Re, x.Im), nil
	case *Integer:
		f, _ := new(big.Float).SetInt(x.X).Float64()
		return complex(f, 0), nil
	case *Rational:
		f, _ := x.X.Float64()
		return complex(f, 0), nil
	case Real:
		return complex(float64(x), 0), nil
	default:
		return 0, herr.ErrTypeMismatch("number", v)
	}
}

// DivideExact reports whether dividing by v would be an exact (Integer or
// Rational) division by zero, which spec section 9 requires to raise
// DivideByZero rather than produce an IEEE-754 infinity/NaN.
func DivideExact(v Value) bool {
	switch x := v.(type) {
	case *Integer:
		return x.X.Sign() == 0
	case *Rational:
		return x.X.Sign() == 0
	default:
		return false
	}
}
