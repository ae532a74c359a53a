// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import "testing"

func TestLengthString(t *testing.T) {
	tests := []struct {
		l    Length
		want string
	}{
		{Pct(100), "100%"},
		{Px(640), "640px"},
		{Length{Value: 1.5, Unit: Em}, "1.5em"},
		{Length{}, ""},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.l, got, tt.want)
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
	}{
		{"100%", Pct(100)},
		{"640px", Px(640)},
		{"12", Px(12)},
		{" 50vw ", Length{Value: 50, Unit: VW}},
		{"10vh", Length{Value: 10, Unit: VH}},
		{"12pt", Length{Value: 12, Unit: Points}},
		{"2em", Length{Value: 2, Unit: Em}},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if err != nil {
			t.Errorf("ParseLength(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLength(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "px", "wide"} {
		if _, err := ParseLength(bad); err == nil {
			t.Errorf("ParseLength(%q) error = nil", bad)
		}
	}
}

func TestUnitValid(t *testing.T) {
	if !Percent.Valid() || !VH.Valid() {
		t.Error("known units reported invalid")
	}
	if Unit("rem").Valid() || Unit("").Valid() {
		t.Error("unknown units reported valid")
	}
}

func TestContextModeGPU(t *testing.T) {
	for _, m := range []ContextMode{ModeWebGL, ModeWebGL2, ModeWebGPU, ModeKage} {
		if !m.GPU() {
			t.Errorf("%s.GPU() = false", m)
		}
	}
	if Mode2D.GPU() || ContextMode("bitmaprenderer").GPU() {
		t.Error("non-GPU mode reported GPU")
	}
}
