package roas

import "errors"

// Validation failures. Each aborts the calculation; no partial result is returned.
var (
	ErrInvalidSpend          = errors.New("spend must be greater than zero")
	ErrInvalidCommission     = errors.New("commission rate must be between 0 and 100")
	ErrInvalidConversionRate = errors.New("conversion rate must be between 0 and 100")
	ErrInvalidCostPerContact = errors.New("cost per contact must be greater than zero")
	ErrInvalidOrderValue     = errors.New("average order value is out of range")
	ErrInvalidFee            = errors.New("monthly fee must not be negative")
	ErrInvalidTargetRevenue  = errors.New("target revenue must not be negative")
	ErrInsufficientInput     = errors.New("target return multiple, explicit metrics or market segment required")
	ErrUnknownSegment        = errors.New("unknown market segment")
	ErrInvalidDuration       = errors.New("contract duration out of range")
	ErrInvalidGrowthRate     = errors.New("monthly growth rate must not be negative")
	ErrUnknownScenario       = errors.New("unknown scenario")
	ErrOverflow              = errors.New("inputs too large to calculate")
)

// Code returns a stable machine readable code for an engine error, or "" for other errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSpend):
		return "invalid_spend"
	case errors.Is(err, ErrInvalidCommission):
		return "invalid_commission"
	case errors.Is(err, ErrInvalidConversionRate):
		return "invalid_conversion_rate"
	case errors.Is(err, ErrInvalidCostPerContact):
		return "invalid_cost_per_contact"
	case errors.Is(err, ErrInvalidOrderValue):
		return "invalid_order_value"
	case errors.Is(err, ErrInvalidFee):
		return "invalid_fee"
	case errors.Is(err, ErrInvalidTargetRevenue):
		return "invalid_target_revenue"
	case errors.Is(err, ErrInsufficientInput):
		return "insufficient_input"
	case errors.Is(err, ErrUnknownSegment):
		return "unknown_segment"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrInvalidGrowthRate):
		return "invalid_growth_rate"
	case errors.Is(err, ErrUnknownScenario):
		return "unknown_scenario"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	}
	return ""
}
