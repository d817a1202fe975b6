package ynab

import (
	"math"
	"testing"
)

func TestMilliunitsFromAmount(t *testing.T) {
	cases := []struct {
		amount float64
		want   Milliunits
	}{
		{0, 0},
		{1, 1000},
		{-45.67, -45670},
		{50.00, 50000},
		{0.001, 1},
		{123.456, 123456},
	}
	for _, tc := range cases {
		if got := MilliunitsFromAmount(tc.amount); got != tc.want {
			t.Fatalf("MilliunitsFromAmount(%v): expected %d, got %d", tc.amount, tc.want, got)
		}
	}
}

func TestMilliunitsFromAmountRoundsHalfToEven(t *testing.T) {
	// Exact half-milliunit boundaries are the only points where the rounding
	// rule is observable.
	cases := []struct {
		amount float64
		want   Milliunits
	}{
		{0.0005, 0},  // .5 rounds to even 0
		{0.0015, 2},  // 1.5 rounds to even 2
		{0.0025, 2},  // 2.5 rounds to even 2
		{-0.0005, 0},
		{-0.0015, -2},
	}
	for _, tc := range cases {
		if got := MilliunitsFromAmount(tc.amount); got != tc.want {
			t.Fatalf("MilliunitsFromAmount(%v): expected %d, got %d", tc.amount, tc.want, got)
		}
	}
}

func TestMilliunitsRoundTrip(t *testing.T) {
	// Any amount representable to the cent survives the round trip to within
	// a thousandth of a unit.
	for cents := int64(-250000); cents <= 250000; cents += 137 {
		amount := float64(cents) / 100
		got := MilliunitsFromAmount(amount).Amount()
		if math.Abs(got-amount) >= 0.001 {
			t.Fatalf("round trip of %v drifted to %v", amount, got)
		}
	}
}

func TestMilliunitsAmountIsExact(t *testing.T) {
	if got := Milliunits(123456).Amount(); got != 123.456 {
		t.Fatalf("expected 123.456, got %v", got)
	}
	if got := Milliunits(-500).Amount(); got != -0.5 {
		t.Fatalf("expected -0.5, got %v", got)
	}
}

func TestMilliunitsNegate(t *testing.T) {
	if got := Milliunits(1500).Negate(); got != -1500 {
		t.Fatalf("expected -1500, got %d", got)
	}
}

func TestMilliunitsFormat(t *testing.T) {
	cases := []struct {
		m    Milliunits
		want string
	}{
		{0, "$0.00"},
		{1000, "$1.00"},
		{-45670, "$-45.67"},
		{1234560, "$1,234.56"},
		{-1234560, "$-1,234.56"},
		{1000000000, "$1,000,000.00"},
		{50, "$0.05"},
	}
	for _, tc := range cases {
		if got := tc.m.Format(); got != tc.want {
			t.Fatalf("Format(%d): expected %q, got %q", tc.m, tc.want, got)
		}
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Fatal("expected NaN and infinities to be rejected")
	}
	if !IsFinite(0) || !IsFinite(-123.45) {
		t.Fatal("expected finite values to be accepted")
	}
}
