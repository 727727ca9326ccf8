package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{"draft to sent", QuoteDraft, QuoteSent, true},
		{"sent to accepted", QuoteSent, QuoteAccepted, true},
		{"sent to rejected", QuoteSent, QuoteRejected, true},
		{"draft straight to accepted", QuoteDraft, QuoteAccepted, false},
		{"accepted is terminal", QuoteAccepted, QuoteSent, false},
		{"rejected is terminal", QuoteRejected, QuoteSent, false},
		{"expired is terminal", QuoteExpired, QuoteSent, false},
		{"sent back to draft", QuoteSent, QuoteDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(QuoteDraft))
	assert.True(t, Editable(QuoteSent))
	assert.False(t, Editable(QuoteAccepted))
	assert.False(t, Editable(QuoteRejected))
	assert.False(t, Editable(QuoteExpired))
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []OrderStatus{OrderPending, OrderProcessing, OrderFulfilled, OrderCancelled} {
		assert.True(t, ValidOrderStatus(status))
	}
	assert.False(t, ValidOrderStatus("shipped"))
}
