package roas

import (
	"fmt"
	"math"
)

// Solve normalizes req and computes one monthly period. Results that would not be finite
// fail with ErrOverflow.
func (e *Engine) Solve(req Request) (Result, error) {
	n, err := e.Normalize(req)
	if err != nil {
		return Result{}, err
	}
	res := Solve(n)
	if err := checkFinite(res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Solve computes one period's outputs from a normalized request. It has no side effects.
func Solve(n Normalized) Result {
	spend := n.Spend
	res := Result{Mode: n.Mode, Spend: spend}

	switch n.Mode {
	case ModeReverseFromReturn:
		res.GrossRevenue = spend * n.TargetReturnMultiple
		res.Contacts = safeDiv(spend, n.CostPerContact)
		res.Conversions = safeDiv(res.GrossRevenue, n.AverageOrderValue)
		res.ResolvedCostPerContact = n.CostPerContact
		res.ResolvedAverageOrderValue = n.AverageOrderValue
		res.ResolvedConversionRatePercent = safeDiv(res.Conversions, res.Contacts) * 100

	case ModeExplicitMetrics, ModeBenchmarkFallback:
		res.Contacts = safeDiv(spend, n.CostPerContact)
		res.Conversions = res.Contacts * (n.ConversionRatePercent / 100.0)
		res.GrossRevenue = res.Conversions * n.AverageOrderValue
		res.ResolvedCostPerContact = n.CostPerContact
		res.ResolvedAverageOrderValue = n.AverageOrderValue
		res.ResolvedConversionRatePercent = n.ConversionRatePercent
	}

	res.CommissionAmount = res.GrossRevenue * (n.CommissionRatePercent / 100.0)
	res.NetRevenue = res.GrossRevenue - res.CommissionAmount
	res.ReturnMultiple = safeDiv(res.GrossRevenue, spend)
	res.ReturnOnInvestmentPercent = safeDiv(res.NetRevenue-spend, spend) * 100
	res.CostPerConversion = safeDiv(spend, res.Conversions)

	if n.CompetitorMonthlyFee != nil {
		v := feeROIPercent(res.NetRevenue, spend, *n.CompetitorMonthlyFee)
		res.CompetitorROIPercent = &v
	}
	if n.OwnMonthlyFee != nil {
		v := feeROIPercent(res.NetRevenue, spend, *n.OwnMonthlyFee)
		res.OwnROIPercent = &v
	}
	if n.TargetRevenue != nil && res.ReturnMultiple > 0 {
		v := *n.TargetRevenue / res.ReturnMultiple
		res.SuggestedSpend = &v
	}

	return res
}

// feeROIPercent is the ROI once a fixed monthly fee is added to spend.
func feeROIPercent(net, spend, fee float64) float64 {
	cost := spend + fee
	return safeDiv(net-cost, cost) * 100
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func checkFinite(res Result) error {
	fields := []float64{
		res.Contacts,
		res.Conversions,
		res.GrossRevenue,
		res.NetRevenue,
		res.CommissionAmount,
		res.ReturnMultiple,
		res.ReturnOnInvestmentPercent,
		res.CostPerConversion,
		res.ResolvedConversionRatePercent,
	}
	for _, p := range []*float64{res.SuggestedSpend, res.CompetitorROIPercent, res.OwnROIPercent} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	for _, v := range fields {
		if !isFinite(v) {
			return fmt.Errorf("%w: spend %v", ErrOverflow, res.Spend)
		}
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }
