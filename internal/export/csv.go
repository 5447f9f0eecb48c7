package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/roasplan/internal/roas"
)

var csvHeader = []string{"Month", "Spend", "Contacts", "Conversions", "Revenue", "ReturnMultiple", "CumulativeRevenue"}

// WriteCSV renders p as one row per period followed by a blank row and a TOTAL row.
func WriteCSV(w io.Writer, p roas.Projection) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range p.Periods {
		row := []string{
			strconv.Itoa(e.Period),
			fixed(e.Spend),
			count(e.Contacts),
			count(e.Conversions),
			fixed(e.GrossRevenue),
			fixed(e.ReturnMultiple),
			fixed(e.CumulativeRevenue),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv period %d: %w", e.Period, err)
		}
	}

	t := p.Totals
	rows := [][]string{
		{""},
		{
			"TOTAL",
			fixed(t.TotalSpend),
			count(t.TotalContacts),
			count(t.TotalConversions),
			fixed(t.TotalRevenue),
			fixed(t.AverageReturnMultiple),
			fixed(t.TotalRevenue),
		},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}
	return nil
}

func fixed(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func count(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}
