package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Rp 0"},
		{"500", "Rp 500"},
		{"1500", "Rp 1.500"},
		{"60000", "Rp 60.000"},
		{"1234567", "Rp 1.234.567"},
		{"1234567.50", "Rp 1.234.567,50"},
		{"-500", "-Rp 500"},
		{"-160000", "-Rp 160.000"},
	}

	for _, c := range cases {
		got := FormatRupiah(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got, "input %s", c.in)
	}
}

func TestFormatRupiahSigned(t *testing.T) {
	assert.Equal(t, "+Rp 0", FormatRupiahSigned(decimal.Zero))
	assert.Equal(t, "+Rp 1.000", FormatRupiahSigned(decimal.RequireFromString("1000")))
	assert.Equal(t, "-Rp 500", FormatRupiahSigned(decimal.RequireFromString("-500")))
}

func TestDeriveSellingPrice(t *testing.T) {
	cases := []struct {
		base   string
		markup int
		want   string
	}{
		{"1000", 50, "1500"},
		{"1000", 0, "1000"},
		{"2000", 25, "2500"},
		{"999", 33, "1328.67"},
	}

	for _, c := range cases {
		got := DeriveSellingPrice(decimal.RequireFromString(c.base), c.markup)
		assert.True(t, got.Equal(decimal.RequireFromString(c.want)),
			"base %s markup %d: got %s", c.base, c.markup, got)
	}
}
