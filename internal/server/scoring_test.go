package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestScoreSet(t *testing.T) {
	tests := []struct {
		name       string
		predicted  *int
		won        int
		prior      int
		wantPoints int
		wantTotal  int
	}{
		{name: "exact bid earns bonus", predicted: intPtr(3), won: 3, prior: 10, wantPoints: 9, wantTotal: 19},
		{name: "missed bid pays penalty", predicted: intPtr(2), won: 4, prior: 0, wantPoints: 6, wantTotal: 6},
		{name: "zero bid hit exactly", predicted: intPtr(0), won: 0, prior: 5, wantPoints: 3, wantTotal: 8},
		{name: "zero bid missed", predicted: intPtr(0), won: 1, prior: 0, wantPoints: 0, wantTotal: 0},
		{name: "no bid scores as zero prediction", predicted: nil, won: 0, prior: 5, wantPoints: 3, wantTotal: 8},
		{name: "no bid with wins still misses", predicted: nil, won: 2, prior: 7, wantPoints: 2, wantTotal: 9},
		{name: "penalty can go negative", predicted: intPtr(5), won: 0, prior: 0, wantPoints: -2, wantTotal: -2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			points, total := scoreSet(tc.predicted, tc.won, tc.prior)
			assert.Equal(t, tc.wantPoints, points)
			assert.Equal(t, tc.wantTotal, total)
		})
	}
}
