// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a CSS length unit.
type Unit string

// Units.
const (
	Pixels  Unit = "px"
	Percent Unit = "%"
	Points  Unit = "pt"
	Em      Unit = "em"
	VW      Unit = "vw"
	VH      Unit = "vh"
)

var units = []Unit{Pixels, Percent, Points, Em, VW, VH}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	for _, v := range units {
		if u == v {
			return true
		}
	}
	return false
}

// Length is a styled length such as 100% or 640px. The zero value means
// "not set".
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: Pixels} }

// Pct returns a percentage length.
func Pct(v float64) Length { return Length{Value: v, Unit: Percent} }

// IsZero reports whether the length is unset.
func (l Length) IsZero() bool { return l.Unit == "" }

// String returns the CSS spelling of the length. Unset lengths are empty.
func (l Length) String() string {
	if l.IsZero() {
		return ""
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// ParseLength parses a CSS length. A bare number is in pixels.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, fmt.Errorf("host: empty length")
	}
	unit := Pixels
	for _, u := range units {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			s = strings.TrimSuffix(s, string(u))
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Length{}, fmt.Errorf("host: invalid length %q: %w", s, err)
	}
	return Length{Value: v, Unit: unit}, nil
}
