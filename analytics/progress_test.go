package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	t.Parallel()

	d := decimal.RequireFromString

	tests := []struct {
		name      string
		net       string
		target    string
		maxLoss   string
		percent   float64
		remaining string
		reached   bool
		breached  bool
	}{
		{"under_target", "250", "1000", "500", 25, "750", false, false},
		{"target_hit", "1200", "1000", "500", 120, "0", true, false},
		{"exactly_target", "1000", "1000", "500", 100, "0", true, false},
		{"max_loss_breached", "-600", "1000", "500", -60, "1600", false, true},
		{"max_loss_touched", "-500", "1000", "500", -50, "1500", false, true},
		{"no_target", "300", "0", "500", 0, "0", false, false},
		{"no_max_loss", "-5000", "1000", "0", -500, "6000", false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Progress(d(tt.net), d(tt.target), d(tt.maxLoss))
			assert.InDelta(t, tt.percent, r.Percent, 1e-9)
			assert.True(t, d(tt.remaining).Equal(r.Remaining), "remaining %s", r.Remaining)
			assert.Equal(t, tt.reached, r.TargetReached)
			assert.Equal(t, tt.breached, r.MaxLossBreached)
		})
	}
}
