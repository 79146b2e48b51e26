// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fixed implements the fixed-point numeric types used to decode
// OpenType font variation data: 16.16 values (Fixed) and 2.14 values
// (F2Dot14, used for normalized design-space coordinates).
package fixed

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

// ZERO and ONE are the additive and multiplicative identities.
const (
	ZERO Fixed = 0
	ONE  Fixed = 1 << 16
)

// MulDiv returns f*a/b, computed with a 64-bit intermediate and truncated
// toward zero. This is the only multiply-divide contract the gvar scalar
// engine requires; see TupleVariation.ComputeScalar.
func (f Fixed) MulDiv(a, b Fixed) Fixed {
	return Fixed((int64(f) * int64(a)) / int64(b))
}

// FromF64 converts a float64 to a Fixed, rounding toward nearest.
func FromF64(v float64) Fixed {
	return Fixed(v*65536 + sign(v)*0.5)
}

// Float64 returns f as a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 65536
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// F2Dot14 is a signed 2.14 fixed-point number, used for normalized axis
// coordinates and tuple peak/intermediate values.
type F2Dot14 int16

// F2Dot14Zero and F2Dot14One are the additive and multiplicative identities.
const (
	F2Dot14Zero F2Dot14 = 0
	F2Dot14One  F2Dot14 = 1 << 14
)

// ToFixed widens f to a 16.16 Fixed value.
func (f F2Dot14) ToFixed() Fixed {
	return Fixed(f) << 2
}

// FromF32 converts a float32 to an F2Dot14, rounding toward nearest.
func FromF32(v float32) F2Dot14 {
	return F2Dot14(v*16384 + float32(sign(float64(v)))*0.5)
}

// Float32 returns f as a float32.
func (f F2Dot14) Float32() float32 {
	return float32(f) / 16384
}

// FromBits constructs an F2Dot14 directly from its on-disk bit pattern.
func FromBits(bits uint16) F2Dot14 {
	return F2Dot14(int16(bits))
}
