package roas

import (
	"fmt"
	"math"
)

// Scenario tags a deterministic variant of a base request.
type Scenario string

const (
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioRealistic   Scenario = "realistic"
	ScenarioPessimistic Scenario = "pessimistic"
)

// ParseScenario maps a tag to a Scenario. The empty tag is realistic.
func ParseScenario(tag string) (Scenario, error) {
	switch Scenario(tag) {
	case "", ScenarioRealistic:
		return ScenarioRealistic, nil
	case ScenarioOptimistic, ScenarioPessimistic:
		return Scenario(tag), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, tag)
}

type scenarioMultipliers struct {
	returnMultiple float64
	costPerContact float64
	conversionRate float64
}

// Order value is never scaled.
var multipliers = map[Scenario]scenarioMultipliers{
	ScenarioOptimistic:  {returnMultiple: 1.3, costPerContact: 0.85, conversionRate: 1.3},
	ScenarioPessimistic: {returnMultiple: 0.75, costPerContact: 1.2, conversionRate: 0.75},
}

// ScenarioSet holds the three solved variants of one request.
type ScenarioSet struct {
	Optimistic  Result `json:"optimistic"`
	Realistic   Result `json:"realistic"`
	Pessimistic Result `json:"pessimistic"`
}

// ApplyScenarioAdjustment returns req adjusted for the scenario. Requests in reverse mode have
// their target return multiple scaled; all others have cost per contact and conversion rate
// scaled, with segment values copied into the request first, so a benchmark request comes back
// as an explicit-metrics one. SolveScenario keeps the base mode on the result. req itself is not
// modified.
func (e *Engine) ApplyScenarioAdjustment(req Request, s Scenario) (Request, error) {
	if s == ScenarioRealistic {
		return req, nil
	}
	m, ok := multipliers[s]
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownScenario, s)
	}

	n, err := e.Normalize(req)
	if err != nil {
		return Request{}, err
	}

	out := req
	switch n.Mode {
	case ModeReverseFromReturn:
		out.TargetReturnMultiple = Float(n.TargetReturnMultiple * m.returnMultiple)
	default:
		out.AverageOrderValue = Float(n.AverageOrderValue)
		out.CostPerContact = Float(n.CostPerContact * m.costPerContact)
		out.ConversionRatePercent = Float(math.Min(n.ConversionRatePercent*m.conversionRate, 100))
	}
	return out, nil
}

// SolveScenario solves the scenario variant of req. The result reports the mode of req.
func (e *Engine) SolveScenario(req Request, s Scenario) (Result, error) {
	base, err := e.Normalize(req)
	if err != nil {
		return Result{}, err
	}
	adjusted, err := e.ApplyScenarioAdjustment(req, s)
	if err != nil {
		return Result{}, err
	}
	res, err := e.Solve(adjusted)
	if err != nil {
		return Result{}, err
	}
	res.Mode = base.Mode
	return res, nil
}

// Scenarios solves the optimistic, realistic and pessimistic variants of req independently.
func (e *Engine) Scenarios(req Request) (ScenarioSet, error) {
	var set ScenarioSet
	for _, v := range []struct {
		scenario Scenario
		dst      *Result
	}{
		{ScenarioOptimistic, &set.Optimistic},
		{ScenarioRealistic, &set.Realistic},
		{ScenarioPessimistic, &set.Pessimistic},
	} {
		res, err := e.SolveScenario(req, v.scenario)
		if err != nil {
			return ScenarioSet{}, fmt.Errorf("%s scenario: %w", v.scenario, err)
		}
		*v.dst = res
	}
	return set, nil
}
