package roas

// Rating is how a return multiple compares against a segment's thresholds.
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingAverage      Rating = "average"
	RatingBelowAverage Rating = "below_average"
)

// Classification rates a return multiple against a market segment.
type Classification struct {
	SegmentID            string  `json:"segment_id"`
	Rating               Rating  `json:"rating"`
	VersusAveragePercent float64 `json:"versus_average_percent"`
}

// Classify rates returnMultiple against seg. Custom segments carry no market reference and
// report ok=false.
func Classify(returnMultiple float64, seg Segment) (Classification, bool) {
	if seg.Custom {
		return Classification{}, false
	}

	c := Classification{SegmentID: seg.ID}
	switch {
	case returnMultiple >= seg.ExcellentReturnMultiple:
		c.Rating = RatingExcellent
	case returnMultiple >= seg.GoodReturnMultiple:
		c.Rating = RatingGood
	case returnMultiple >= seg.AverageReturnMultiple:
		c.Rating = RatingAverage
	default:
		c.Rating = RatingBelowAverage
	}
	if seg.AverageReturnMultiple != 0 {
		c.VersusAveragePercent = (returnMultiple/seg.AverageReturnMultiple - 1) * 100
	}
	return c, true
}

// ClassifyResult rates res against the request's segment, when it has one the engine knows.
func (e *Engine) ClassifyResult(req Request, res Result) (Classification, bool) {
	if req.MarketSegmentID == "" {
		return Classification{}, false
	}
	seg, err := e.segment(req.MarketSegmentID)
	if err != nil {
		return Classification{}, false
	}
	return Classify(res.ReturnMultiple, seg)
}
