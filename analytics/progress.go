package analytics

import "github.com/shopspring/decimal"

// ProgressReport measures net P/L against a funded-account evaluation:
// a profit target to reach and a maximum loss not to breach.
type ProgressReport struct {
	NetPnL          decimal.Decimal
	Target          decimal.Decimal
	MaxLoss         decimal.Decimal
	Percent         float64 // share of target reached, negative when under water
	Remaining       decimal.Decimal
	TargetReached   bool
	MaxLossBreached bool
}

// Progress compares net against target and maxLoss. A non-positive
// target or maxLoss disables that side of the check.
func Progress(net, target, maxLoss decimal.Decimal) ProgressReport {
	r := ProgressReport{
		NetPnL:    net,
		Target:    target,
		MaxLoss:   maxLoss,
		Remaining: decimal.Zero,
	}

	if target.IsPositive() {
		r.Percent = net.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
		r.TargetReached = net.GreaterThanOrEqual(target)
		if !r.TargetReached {
			r.Remaining = target.Sub(net)
		}
	}
	if maxLoss.IsPositive() {
		r.MaxLossBreached = net.LessThanOrEqual(maxLoss.Neg())
	}
	return r
}
