package roas

import (
	"fmt"
	"math"
)

// Project forecasts durationMonths periods, compounding spend by growthRatePercent each period.
// Spend is normalized to monthly before growth is applied.
func (e *Engine) Project(req Request, durationMonths int, growthRatePercent float64) (Projection, error) {
	if durationMonths < 1 || durationMonths > e.maxContractMonths {
		return Projection{}, fmt.Errorf("%w: %d months, want 1 to %d", ErrInvalidDuration, durationMonths, e.maxContractMonths)
	}
	if !(growthRatePercent >= 0) || math.IsInf(growthRatePercent, 1) {
		return Projection{}, fmt.Errorf("%w: got %v", ErrInvalidGrowthRate, growthRatePercent)
	}

	base, err := e.Normalize(req)
	if err != nil {
		return Projection{}, err
	}

	periods := make([]PeriodEntry, 0, durationMonths)
	var totals Totals
	growth := 1 + growthRatePercent/100

	for k := 1; k <= durationMonths; k++ {
		// closed form per index so period k matches base*(1+g)^(k-1) exactly
		periodSpend := base.Spend * math.Pow(growth, float64(k-1))
		if !isFinite(periodSpend) {
			return Projection{}, fmt.Errorf("period %d spend: %w", k, ErrOverflow)
		}

		periodReq := req
		periodReq.Spend = periodSpend
		periodReq.Period = PeriodMonthly
		res, err := e.Solve(periodReq)
		if err != nil {
			return Projection{}, fmt.Errorf("period %d: %w", k, err)
		}

		totals.TotalRevenue += res.GrossRevenue
		totals.TotalSpend += periodSpend
		totals.TotalContacts += res.Contacts
		totals.TotalConversions += res.Conversions

		periods = append(periods, PeriodEntry{
			Period:            k,
			Spend:             periodSpend,
			Contacts:          res.Contacts,
			Conversions:       res.Conversions,
			NetRevenue:        res.NetRevenue,
			GrossRevenue:      res.GrossRevenue,
			Commission:        res.CommissionAmount,
			ReturnMultiple:    res.ReturnMultiple,
			CumulativeRevenue: totals.TotalRevenue,
			CumulativeSpend:   totals.TotalSpend,
		})
	}

	for _, v := range []float64{totals.TotalRevenue, totals.TotalSpend, totals.TotalContacts, totals.TotalConversions} {
		if !isFinite(v) {
			return Projection{}, fmt.Errorf("%w: projection totals", ErrOverflow)
		}
	}
	totals.AverageReturnMultiple = safeDiv(totals.TotalRevenue, totals.TotalSpend)
	totals.FinalReturnMultiple = periods[len(periods)-1].ReturnMultiple

	return Projection{
		Periods:  periods,
		Totals:   totals,
		Insights: GenerateInsights(periods, totals, durationMonths),
	}, nil
}

// ProjectRequest projects using the duration and growth rate carried on req.
func (e *Engine) ProjectRequest(req Request) (Projection, error) {
	if req.ContractDurationMonths == nil {
		return Projection{}, fmt.Errorf("%w: contract duration not set", ErrInvalidDuration)
	}
	growth := 0.0
	if req.MonthlyGrowthRatePercent != nil {
		growth = *req.MonthlyGrowthRatePercent
	}
	return e.Project(req, *req.ContractDurationMonths, growth)
}
