package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetRevenueRetention(t *testing.T) {
	// (1000 + 200 - 50 - 150) / 1000 * 100
	got := NetRevenueRetention(d("1000"), d("200"), d("50"), d("150"))
	assert.True(t, got.Equal(d("100")), "got %s", got)
}

func TestNetRevenueRetention_AboveHundred(t *testing.T) {
	got := NetRevenueRetention(d("1000"), d("300"), d("0"), d("0"))
	assert.True(t, got.Equal(d("130")), "got %s", got)
}

func TestNetRevenueRetention_ZeroCurrentMRR(t *testing.T) {
	got := NetRevenueRetention(d("0"), d("100"), d("0"), d("0"))
	assert.True(t, got.IsZero())
}
