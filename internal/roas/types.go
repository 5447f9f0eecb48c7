package roas

import "fmt"

// Period is the spend period a request is expressed in.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodDaily   Period = "daily"
)

// daysPerMonth converts daily spend into the monthly equivalent.
const daysPerMonth = 30

// Mode is the resolution mode chosen for a request.
type Mode int

const (
	// ModeReverseFromReturn infers metrics from a target return multiple.
	ModeReverseFromReturn Mode = iota + 1
	// ModeExplicitMetrics runs the forward chain on caller supplied metrics.
	ModeExplicitMetrics
	// ModeBenchmarkFallback runs the forward chain on the segment's reference metrics.
	ModeBenchmarkFallback
)

func (m Mode) String() string {
	switch m {
	case ModeReverseFromReturn:
		return "reverse_from_return"
	case ModeExplicitMetrics:
		return "explicit_metrics"
	case ModeBenchmarkFallback:
		return "benchmark_fallback"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode with its string name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText parses a mode name written by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	for _, candidate := range []Mode{ModeReverseFromReturn, ModeExplicitMetrics, ModeBenchmarkFallback} {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", text)
}

// Request represents the inputs of one calculation. Nil pointers mean the value was not supplied.
type Request struct {
	Spend                    float64  `json:"spend"`
	Period                   Period   `json:"period,omitempty"`
	TargetReturnMultiple     *float64 `json:"target_return_multiple,omitempty"`
	AverageOrderValue        *float64 `json:"average_order_value,omitempty"`
	CostPerContact           *float64 `json:"cost_per_contact,omitempty"`
	ConversionRatePercent    *float64 `json:"conversion_rate_percent,omitempty"`
	CommissionRatePercent    *float64 `json:"commission_rate_percent,omitempty"`
	CompetitorMonthlyFee     *float64 `json:"competitor_monthly_fee,omitempty"`
	OwnMonthlyFee            *float64 `json:"own_monthly_fee,omitempty"`
	TargetRevenue            *float64 `json:"target_revenue,omitempty"`
	MarketSegmentID          string   `json:"market_segment_id,omitempty"`
	ContractDurationMonths   *int     `json:"contract_duration_months,omitempty"`
	MonthlyGrowthRatePercent *float64 `json:"monthly_growth_rate_percent,omitempty"`
}

// Result groups the outputs of a single period calculation.
type Result struct {
	Mode                          Mode     `json:"mode"`
	Spend                         float64  `json:"spend"`
	Contacts                      float64  `json:"contacts"`
	Conversions                   float64  `json:"conversions"`
	GrossRevenue                  float64  `json:"gross_revenue"`
	NetRevenue                    float64  `json:"net_revenue"`
	CommissionAmount              float64  `json:"commission_amount"`
	ReturnMultiple                float64  `json:"return_multiple"`
	ReturnOnInvestmentPercent     float64  `json:"return_on_investment_percent"`
	CostPerConversion             float64  `json:"cost_per_conversion"`
	SuggestedSpend                *float64 `json:"suggested_spend,omitempty"`
	CompetitorROIPercent          *float64 `json:"competitor_roi_percent,omitempty"`
	OwnROIPercent                 *float64 `json:"own_roi_percent,omitempty"`
	ResolvedCostPerContact        float64  `json:"resolved_cost_per_contact"`
	ResolvedAverageOrderValue     float64  `json:"resolved_average_order_value"`
	ResolvedConversionRatePercent float64  `json:"resolved_conversion_rate_percent"`
}

// PeriodEntry is one row of a contract projection.
type PeriodEntry struct {
	Period            int     `json:"period"`
	Spend             float64 `json:"spend"`
	Contacts          float64 `json:"contacts"`
	Conversions       float64 `json:"conversions"`
	NetRevenue        float64 `json:"net_revenue"`
	GrossRevenue      float64 `json:"gross_revenue"`
	Commission        float64 `json:"commission"`
	ReturnMultiple    float64 `json:"return_multiple"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
	CumulativeSpend   float64 `json:"cumulative_spend"`
}

// Totals contains roll-up values of a contract projection.
type Totals struct {
	TotalSpend            float64 `json:"total_spend"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalContacts         float64 `json:"total_contacts"`
	TotalConversions      float64 `json:"total_conversions"`
	AverageReturnMultiple float64 `json:"average_return_multiple"`
	FinalReturnMultiple   float64 `json:"final_return_multiple"`
}

// Projection is a chronological multi-period forecast with its totals and insights.
type Projection struct {
	Periods  []PeriodEntry `json:"periods"`
	Totals   Totals        `json:"totals"`
	Insights []Insight     `json:"insights"`
}

// Segment is a market category with typical metrics and return-multiple thresholds.
type Segment struct {
	ID                      string  `json:"id" yaml:"id"`
	Name                    string  `json:"name" yaml:"name"`
	Description             string  `json:"description" yaml:"description"`
	AverageOrderValue       float64 `json:"average_order_value" yaml:"average_order_value"`
	CostPerContact          float64 `json:"cost_per_contact" yaml:"cost_per_contact"`
	ConversionRatePercent   float64 `json:"conversion_rate_percent" yaml:"conversion_rate_percent"`
	GoodReturnMultiple      float64 `json:"good_return_multiple" yaml:"good_return_multiple"`
	ExcellentReturnMultiple float64 `json:"excellent_return_multiple" yaml:"excellent_return_multiple"`
	AverageReturnMultiple   float64 `json:"average_return_multiple" yaml:"average_return_multiple"`
	Custom                  bool    `json:"custom" yaml:"custom"`
}

// SegmentLookup resolves benchmark segments by id.
type SegmentLookup interface {
	Segment(id string) (Segment, bool)
}

// Float returns a pointer to v, for building requests with optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
