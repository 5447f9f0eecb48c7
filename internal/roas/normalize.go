package roas

import (
	"fmt"
	"math"
)

// Reverse mode falls back to these when neither an explicit value nor a segment value exists.
const (
	DefaultCostPerContact    = 20.0
	DefaultAverageOrderValue = 500.0
)

// DefaultMaxContractMonths caps projection length unless overridden with WithMaxContractMonths.
const DefaultMaxContractMonths = 60

// Engine runs calculations against a read-only segment lookup. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	segments          SegmentLookup
	maxContractMonths int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxContractMonths overrides the longest projection Project accepts.
func WithMaxContractMonths(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxContractMonths = n
		}
	}
}

// NewEngine returns an Engine resolving segments through lookup. A nil lookup knows no segments.
func NewEngine(lookup SegmentLookup, opts ...Option) *Engine {
	e := &Engine{segments: lookup, maxContractMonths: DefaultMaxContractMonths}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxContractMonths reports the projection length cap.
func (e *Engine) MaxContractMonths() int { return e.maxContractMonths }

// Normalized is a validated request with its mode resolved once. Spend is always monthly.
type Normalized struct {
	Mode                  Mode
	Spend                 float64
	TargetReturnMultiple  float64
	CostPerContact        float64
	AverageOrderValue     float64
	ConversionRatePercent float64
	CommissionRatePercent float64
	CompetitorMonthlyFee  *float64
	OwnMonthlyFee         *float64
	TargetRevenue         *float64
}

// Normalize validates req, converts daily spend to monthly and selects the resolution mode.
func (e *Engine) Normalize(req Request) (Normalized, error) {
	if !(req.Spend > 0) || math.IsInf(req.Spend, 1) {
		return Normalized{}, fmt.Errorf("%w: got %v", ErrInvalidSpend, req.Spend)
	}

	n := Normalized{
		Spend:                monthlySpend(req.Spend, req.Period),
		CompetitorMonthlyFee: req.CompetitorMonthlyFee,
		OwnMonthlyFee:        req.OwnMonthlyFee,
		TargetRevenue:        req.TargetRevenue,
	}
	if !isFinite(n.Spend) {
		return Normalized{}, fmt.Errorf("%w: monthly spend of %v %s", ErrOverflow, req.Spend, req.Period)
	}

	if req.CommissionRatePercent != nil {
		if !percentInRange(*req.CommissionRatePercent) {
			return Normalized{}, fmt.Errorf("%w: got %v", ErrInvalidCommission, *req.CommissionRatePercent)
		}
		n.CommissionRatePercent = *req.CommissionRatePercent
	}
	if err := validateFee("competitor", req.CompetitorMonthlyFee); err != nil {
		return Normalized{}, err
	}
	if err := validateFee("own", req.OwnMonthlyFee); err != nil {
		return Normalized{}, err
	}
	if req.TargetRevenue != nil && !finiteNonNegative(*req.TargetRevenue) {
		return Normalized{}, fmt.Errorf("%w: got %v", ErrInvalidTargetRevenue, *req.TargetRevenue)
	}

	switch {
	case req.TargetReturnMultiple != nil && *req.TargetReturnMultiple > 0:
		if math.IsInf(*req.TargetReturnMultiple, 1) {
			return Normalized{}, fmt.Errorf("%w: target return multiple %v", ErrOverflow, *req.TargetReturnMultiple)
		}
		n.Mode = ModeReverseFromReturn
		n.TargetReturnMultiple = *req.TargetReturnMultiple
		if err := e.resolveReverseMetrics(req, &n); err != nil {
			return Normalized{}, err
		}

	case req.AverageOrderValue != nil && req.CostPerContact != nil && req.ConversionRatePercent != nil:
		n.Mode = ModeExplicitMetrics
		n.AverageOrderValue = *req.AverageOrderValue
		n.CostPerContact = *req.CostPerContact
		n.ConversionRatePercent = *req.ConversionRatePercent
		if err := validateForwardMetrics(n.AverageOrderValue, n.CostPerContact, n.ConversionRatePercent); err != nil {
			return Normalized{}, err
		}

	case req.MarketSegmentID != "":
		seg, err := e.segment(req.MarketSegmentID)
		if err != nil {
			return Normalized{}, err
		}
		n.Mode = ModeBenchmarkFallback
		n.AverageOrderValue = seg.AverageOrderValue
		n.CostPerContact = seg.CostPerContact
		n.ConversionRatePercent = seg.ConversionRatePercent
		if err := validateForwardMetrics(n.AverageOrderValue, n.CostPerContact, n.ConversionRatePercent); err != nil {
			return Normalized{}, fmt.Errorf("segment %q: %w", seg.ID, err)
		}

	default:
		return Normalized{}, ErrInsufficientInput
	}

	return n, nil
}

// resolveReverseMetrics picks cost per contact and order value: explicit, then segment, then default.
func (e *Engine) resolveReverseMetrics(req Request, n *Normalized) error {
	n.CostPerContact = DefaultCostPerContact
	n.AverageOrderValue = DefaultAverageOrderValue

	if req.MarketSegmentID != "" && (req.CostPerContact == nil || req.AverageOrderValue == nil) {
		seg, err := e.segment(req.MarketSegmentID)
		if err != nil {
			return err
		}
		// zero means the segment carries no reference value
		if seg.CostPerContact > 0 {
			n.CostPerContact = seg.CostPerContact
		}
		if seg.AverageOrderValue > 0 {
			n.AverageOrderValue = seg.AverageOrderValue
		}
	}

	if req.CostPerContact != nil {
		if !(*req.CostPerContact > 0) || math.IsInf(*req.CostPerContact, 1) {
			return fmt.Errorf("%w: got %v", ErrInvalidCostPerContact, *req.CostPerContact)
		}
		n.CostPerContact = *req.CostPerContact
	}
	if req.AverageOrderValue != nil {
		if !(*req.AverageOrderValue > 0) || math.IsInf(*req.AverageOrderValue, 1) {
			return fmt.Errorf("%w: must be greater than zero, got %v", ErrInvalidOrderValue, *req.AverageOrderValue)
		}
		n.AverageOrderValue = *req.AverageOrderValue
	}
	return nil
}

func (e *Engine) segment(id string) (Segment, error) {
	if e.segments == nil {
		return Segment{}, fmt.Errorf("%w: %q", ErrUnknownSegment, id)
	}
	seg, ok := e.segments.Segment(id)
	if !ok {
		return Segment{}, fmt.Errorf("%w: %q", ErrUnknownSegment, id)
	}
	return seg, nil
}

func validateForwardMetrics(aov, cpc, rate float64) error {
	if !(cpc > 0) || math.IsInf(cpc, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidCostPerContact, cpc)
	}
	if !percentInRange(rate) {
		return fmt.Errorf("%w: got %v", ErrInvalidConversionRate, rate)
	}
	if !finiteNonNegative(aov) {
		return fmt.Errorf("%w: must not be negative, got %v", ErrInvalidOrderValue, aov)
	}
	return nil
}

func validateFee(name string, fee *float64) error {
	if fee != nil && !finiteNonNegative(*fee) {
		return fmt.Errorf("%w: %s fee %v", ErrInvalidFee, name, *fee)
	}
	return nil
}

func monthlySpend(spend float64, p Period) float64 {
	if p == PeriodDaily {
		return spend * daysPerMonth
	}
	return spend
}

func percentInRange(v float64) bool { return v >= 0 && v <= 100 }

// finiteNonNegative is false for NaN and +Inf as well as negatives.
func finiteNonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 1) }
