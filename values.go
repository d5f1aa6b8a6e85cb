// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// MaxValues is the maximum number of line values that can be contained in
// one Values.
//
// This matches the v2 uAPI limit of 64 lines per request.
const MaxValues = 64

// Values contains the levels of a set of lines, together with the mask of
// the lines the levels apply to.
//
// Bit i of Bits is the level of the line at index i of the request the
// values apply to, i.e. bit positions follow the order of the requested
// offsets, not the offsets themselves.
// Bit i of Bits is only meaningful if bit i of Mask is set.  When setting,
// lines with a clear mask bit are left unchanged.  When getting, lines with
// a clear mask bit are ignored and their bits returned zeroed.
type Values struct {
	// The logical levels of the lines.
	Bits uint64

	// A bitmap identifying the lines the Bits apply to.
	Mask uint64
}

// NewValues constructs a Values from a list of levels, one per line in
// request order.
//
// A zero level is low and any other value is high.  All the provided lines
// are masked.  Levels beyond MaxValues are ignored.
func NewValues(vv ...int) Values {
	var v Values
	for i, l := range vv {
		if i >= MaxValues {
			break
		}
		v.Set(i, l)
	}
	return v
}

// Set sets the level of the line at index i and marks it as masked.
func (v *Values) Set(i, level int) {
	if i < 0 || i >= MaxValues {
		return
	}
	mask := uint64(1) << uint(i)
	v.Mask |= mask
	if level != 0 {
		v.Bits |= mask
	} else {
		v.Bits &^= mask
	}
}

// Unset clears the mask bit for the line at index i, so it will be left
// unchanged by a set and ignored by a get.
func (v *Values) Unset(i int) {
	if i < 0 || i >= MaxValues {
		return
	}
	mask := uint64(1) << uint(i)
	v.Mask &^= mask
	v.Bits &^= mask
}

// Get returns the level of the line at index i, and whether that line is
// masked.
//
// The level is only meaningful if the line is masked.
func (v Values) Get(i int) (level int, masked bool) {
	if i < 0 || i >= MaxValues {
		return 0, false
	}
	mask := uint64(1) << uint(i)
	if v.Mask&mask == 0 {
		return 0, false
	}
	if v.Bits&mask != 0 {
		return 1, true
	}
	return 0, true
}

// IsSet returns true if the line at index i is masked.
func (v Values) IsSet(i int) bool {
	_, masked := v.Get(i)
	return masked
}

// ParseValues parses a textual representation of line values, as produced
// by String.
//
// The string contains one character per line, most significant line first,
// with '1' for a masked high, '0' for a masked low and 'x' for unmasked.
// An optional "0b" prefix is accepted.
func ParseValues(s string) (Values, error) {
	s = strings.TrimPrefix(s, "0b")
	if len(s) > MaxValues {
		return Values{}, ErrInvalidConfig
	}
	var v Values
	i := len(s)
	for _, c := range s {
		i--
		switch c {
		case '1':
			v.Set(i, 1)
		case '0':
			v.Set(i, 0)
		case 'x':
		default:
			return Values{}, errors.Errorf("unexpected char in line values: %q", c)
		}
	}
	return v, nil
}

// String returns a textual representation of the values, most significant
// line first, with '1' for a masked high, '0' for a masked low and 'x' for
// unmasked.
//
// The representation extends to the most significant masked line, so
// unmasked lines above that are not rendered, and a Values with nothing
// masked renders as "x".
func (v Values) String() string {
	width := bits.Len64(v.Mask)
	if width == 0 {
		width = 1
	}
	var sb strings.Builder
	for i := width - 1; i >= 0; i-- {
		switch level, masked := v.Get(i); {
		case !masked:
			sb.WriteByte('x')
		case level != 0:
			sb.WriteByte('1')
		default:
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// truncate returns the values clamped to a request width of n lines.
//
// Bits above the width, and bits without a corresponding mask bit, are
// zeroed.
func (v Values) truncate(n int) Values {
	m := lineMask(n)
	return Values{Bits: v.Bits & v.Mask & m, Mask: v.Mask & m}
}

// lineMask returns the mask covering the first n lines.
func lineMask(n int) uint64 {
	if n >= MaxValues {
		return ^uint64(0)
	}
	return uint64(1)<<uint(n) - 1
}
