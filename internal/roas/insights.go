package roas

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// InsightKind identifies the observation an Insight carries.
type InsightKind string

const (
	InsightRevenueGrowth         InsightKind = "revenue_growth"
	InsightReturnOnInvestment    InsightKind = "return_on_investment"
	InsightAverageMonthlyRevenue InsightKind = "average_monthly_revenue"
	InsightBestPeriod            InsightKind = "best_period"
	InsightWorstPeriod           InsightKind = "worst_period"
	InsightNetProfit             InsightKind = "net_profit"
)

// Insight is a generated observation about a projection. Value is the raw number behind Text
// (a percentage or a money amount depending on Kind); Period is set for best and worst periods.
type Insight struct {
	Kind   InsightKind `json:"kind"`
	Period int         `json:"period,omitempty"`
	Value  float64     `json:"value"`
	Text   string      `json:"text"`
}

func (i Insight) String() string { return i.Text }

// GenerateInsights derives the observations for a finished projection, in a fixed order.
func GenerateInsights(periods []PeriodEntry, totals Totals, durationMonths int) []Insight {
	if len(periods) == 0 {
		return nil
	}
	insights := make([]Insight, 0, 6)

	if len(periods) > 1 {
		first, last := periods[0], periods[len(periods)-1]
		growth := 0.0
		if first.GrossRevenue != 0 {
			growth = (last.GrossRevenue/first.GrossRevenue - 1) * 100
		}
		insights = append(insights, Insight{
			Kind:  InsightRevenueGrowth,
			Value: growth,
			Text:  fmt.Sprintf("Revenue growth of %s%% from the first to the last month", percent(growth)),
		})
	}

	var totalNet float64
	for _, p := range periods {
		totalNet += p.NetRevenue
	}
	roi := safeDiv(totalNet-totals.TotalSpend, totals.TotalSpend) * 100
	insights = append(insights, Insight{
		Kind:  InsightReturnOnInvestment,
		Value: roi,
		Text:  fmt.Sprintf("Total ROI of %s%% over %d months", percent(roi), durationMonths),
	})

	avg := safeDiv(totals.TotalRevenue, float64(durationMonths))
	insights = append(insights, Insight{
		Kind:  InsightAverageMonthlyRevenue,
		Value: avg,
		Text:  fmt.Sprintf("Average monthly revenue of %s", money(avg)),
	})

	// strict comparisons keep the earliest period on ties
	best, worst := periods[0], periods[0]
	for _, p := range periods[1:] {
		if p.GrossRevenue > best.GrossRevenue {
			best = p
		}
		if p.GrossRevenue < worst.GrossRevenue {
			worst = p
		}
	}
	insights = append(insights, Insight{
		Kind:   InsightBestPeriod,
		Period: best.Period,
		Value:  best.GrossRevenue,
		Text:   fmt.Sprintf("Best month: month %d with %s", best.Period, money(best.GrossRevenue)),
	})
	if worst.Period != best.Period {
		insights = append(insights, Insight{
			Kind:   InsightWorstPeriod,
			Period: worst.Period,
			Value:  worst.GrossRevenue,
			Text:   fmt.Sprintf("Most challenging month: month %d with %s", worst.Period, money(worst.GrossRevenue)),
		})
	}

	if profit := totals.TotalRevenue - totals.TotalSpend; profit > 0 {
		insights = append(insights, Insight{
			Kind:  InsightNetProfit,
			Value: profit,
			Text:  fmt.Sprintf("Total net profit of %s over the contract", money(profit)),
		})
	}

	return insights
}

// InsightTexts returns the rendered text of each insight, in order.
func InsightTexts(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Text
	}
	return out
}

// percent and money render non-finite values with %v; decimal.NewFromFloat panics on them.
func percent(v float64) string {
	if !isFinite(v) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

func money(v float64) string {
	if !isFinite(v) {
		return fmt.Sprint(v)
	}
	return humanize.FormatFloat("#,###.##", v)
}
