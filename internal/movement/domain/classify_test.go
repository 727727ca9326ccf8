package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestClassify_Table(t *testing.T) {
	five := dec(5)
	ten := dec(10)
	zero := decimal.Zero

	cases := []struct {
		name     string
		previous *decimal.Decimal
		current  decimal.Decimal
		want     MovementType
	}{
		{"no prior snapshot", nil, ten, MovementNew},
		{"no prior, zero current", nil, zero, MovementNew},
		{"zero to positive", &zero, ten, MovementReactivation},
		{"shrinking", &ten, five, MovementContraction},
		{"growing", &five, ten, MovementExpansion},
		{"flat above zero", &ten, ten, MovementRenewal},
		{"flat at zero", &zero, zero, MovementChurn},
		{"drop to zero", &ten, zero, MovementContraction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.previous, tc.current))
		})
	}
}

func TestClassify_Exhaustive(t *testing.T) {
	values := []decimal.Decimal{decimal.Zero, dec(5), dec(10)}
	previous := []*decimal.Decimal{nil}
	for i := range values {
		previous = append(previous, &values[i])
	}

	valid := map[MovementType]bool{
		MovementNew:          true,
		MovementExpansion:    true,
		MovementContraction:  true,
		MovementChurn:        true,
		MovementReactivation: true,
		MovementRenewal:      true,
	}

	for _, prev := range previous {
		for _, current := range values {
			got := Classify(prev, current)
			assert.True(t, valid[got], "previous=%v current=%s returned %q", prev, current, got)
		}
	}
}
