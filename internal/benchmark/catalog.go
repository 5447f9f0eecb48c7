package benchmark

import (
	"fmt"
	"sort"

	"github.com/Simplici0/roasplan/internal/roas"
)

// CustomSegmentID is the segment for callers that bring their own metrics.
const CustomSegmentID = "custom"

// Catalog is a read-only set of market segments. It satisfies roas.SegmentLookup.
type Catalog struct {
	byID  map[string]roas.Segment
	order []string
}

// NewCatalog builds a catalog from segments. Later entries replace earlier ones with the same id.
func NewCatalog(segments []roas.Segment) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]roas.Segment, len(segments))}
	for _, s := range segments {
		if err := validate(s); err != nil {
			return nil, err
		}
		if _, ok := c.byID[s.ID]; !ok {
			c.order = append(c.order, s.ID)
		}
		c.byID[s.ID] = s
	}
	return c, nil
}

// Segment looks up a segment by id.
func (c *Catalog) Segment(id string) (roas.Segment, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// List returns all segments in insertion order.
func (c *Catalog) List() []roas.Segment {
	out := make([]roas.Segment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Merge returns a catalog with overrides applied on top of c. New ids are appended, sorted.
func (c *Catalog) Merge(overrides []roas.Segment) (*Catalog, error) {
	added := make([]roas.Segment, 0, len(overrides))
	replaced := make(map[string]roas.Segment)
	for _, s := range overrides {
		if _, ok := c.byID[s.ID]; ok {
			replaced[s.ID] = s
			continue
		}
		added = append(added, s)
	}
	sort.SliceStable(added, func(i, j int) bool { return added[i].ID < added[j].ID })

	merged := make([]roas.Segment, 0, len(c.order)+len(added))
	for _, s := range c.List() {
		if r, ok := replaced[s.ID]; ok {
			s = r
		}
		merged = append(merged, s)
	}
	return NewCatalog(append(merged, added...))
}

func validate(s roas.Segment) error {
	if s.ID == "" {
		return fmt.Errorf("segment %q: id is required", s.Name)
	}
	for name, v := range map[string]float64{
		"average_order_value":       s.AverageOrderValue,
		"cost_per_contact":          s.CostPerContact,
		"conversion_rate_percent":   s.ConversionRatePercent,
		"good_return_multiple":      s.GoodReturnMultiple,
		"excellent_return_multiple": s.ExcellentReturnMultiple,
		"average_return_multiple":   s.AverageReturnMultiple,
	} {
		if v < 0 {
			return fmt.Errorf("segment %q: %s must not be negative", s.ID, name)
		}
	}
	if s.ConversionRatePercent > 100 {
		return fmt.Errorf("segment %q: conversion_rate_percent must be at most 100", s.ID)
	}
	return nil
}

// Defaults returns the built-in market segments.
func Defaults() []roas.Segment {
	return []roas.Segment{
		{
			ID:                      "legal",
			Name:                    "Legal services",
			Description:             "Law firms and legal services",
			AverageOrderValue:       2500,
			CostPerContact:          85,
			ConversionRatePercent:   8,
			GoodReturnMultiple:      3.5,
			ExcellentReturnMultiple: 5.0,
			AverageReturnMultiple:   2.8,
		},
		{
			ID:                      "local-business",
			Name:                    "Local business",
			Description:             "Restaurants, salons, neighbourhood clinics",
			AverageOrderValue:       150,
			CostPerContact:          12,
			ConversionRatePercent:   15,
			GoodReturnMultiple:      4.0,
			ExcellentReturnMultiple: 6.0,
			AverageReturnMultiple:   3.2,
		},
		{
			ID:                      "health",
			Name:                    "Health",
			Description:             "Clinics, medical practices, aesthetics",
			AverageOrderValue:       800,
			CostPerContact:          45,
			ConversionRatePercent:   12,
			GoodReturnMultiple:      3.8,
			ExcellentReturnMultiple: 5.5,
			AverageReturnMultiple:   3.0,
		},
		{
			ID:                      "education",
			Name:                    "Education",
			Description:             "Courses, schools, training",
			AverageOrderValue:       500,
			CostPerContact:          25,
			ConversionRatePercent:   10,
			GoodReturnMultiple:      3.5,
			ExcellentReturnMultiple: 5.0,
			AverageReturnMultiple:   2.9,
		},
		{
			ID:                      "ecommerce",
			Name:                    "E-commerce",
			Description:             "Online stores and digital sales",
			AverageOrderValue:       200,
			CostPerContact:          8,
			ConversionRatePercent:   3,
			GoodReturnMultiple:      4.5,
			ExcellentReturnMultiple: 7.0,
			AverageReturnMultiple:   3.5,
		},
		{
			ID:                      "real-estate",
			Name:                    "Real estate",
			Description:             "Brokers and real estate agencies",
			AverageOrderValue:       15000,
			CostPerContact:          120,
			ConversionRatePercent:   5,
			GoodReturnMultiple:      3.0,
			ExcellentReturnMultiple: 4.5,
			AverageReturnMultiple:   2.5,
		},
		{
			ID:                      CustomSegmentID,
			Name:                    "Custom",
			Description:             "Bring your own metrics",
			GoodReturnMultiple:      3.0,
			ExcellentReturnMultiple: 5.0,
			AverageReturnMultiple:   2.5,
			Custom:                  true,
		},
	}
}

// Default returns a catalog of the built-in segments.
func Default() *Catalog {
	c, err := NewCatalog(Defaults())
	if err != nil {
		panic(err)
	}
	return c
}
