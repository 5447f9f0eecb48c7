package export

import (
	"strings"
	"testing"

	"github.com/Simplici0/roasplan/internal/roas"
)

func sampleProjection() roas.Projection {
	return roas.Projection{
		Periods: []roas.PeriodEntry{
			{Period: 1, Spend: 1000, Contacts: 100.4, Conversions: 5.02, GrossRevenue: 1004, ReturnMultiple: 1.004, CumulativeRevenue: 1004},
			{Period: 2, Spend: 1100, Contacts: 110.44, Conversions: 5.522, GrossRevenue: 1104.4, ReturnMultiple: 1.004, CumulativeRevenue: 2108.4},
		},
		Totals: roas.Totals{
			TotalSpend:            2100,
			TotalRevenue:          2108.4,
			TotalContacts:         210.84,
			TotalConversions:      10.542,
			AverageReturnMultiple: 1.004,
			FinalReturnMultiple:   1.004,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, sampleProjection()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	want := strings.Join([]string{
		"Month,Spend,Contacts,Conversions,Revenue,ReturnMultiple,CumulativeRevenue",
		"1,1000.00,100,5,1004.00,1.00,1004.00",
		"2,1100.00,110,6,1104.40,1.00,2108.40",
		"",
		"TOTAL,2100.00,211,11,2108.40,1.00,2108.40",
		"",
	}, "\n")
	if got := b.String(); got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSVEmptyProjection(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, roas.Projection{}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, blank and total lines, got %q", lines)
	}
	if lines[2] != "TOTAL,0.00,0,0,0.00,0.00,0.00" {
		t.Fatalf("total row = %q", lines[2])
	}
}
