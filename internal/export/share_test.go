package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/Simplici0/roasplan/internal/roas"
)

func sampleShared() Shared {
	p := sampleProjection()
	return Shared{
		Input: roas.Request{
			Spend:                  1000,
			Period:                 roas.PeriodMonthly,
			MarketSegmentID:        "ecommerce",
			ContractDurationMonths: roas.Int(2),
		},
		Projection: &p,
	}
}

func TestShareRoundTrip(t *testing.T) {
	token, err := EncodeShare(sampleShared())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.ContainsAny(token, "=+/") {
		t.Fatalf("token is not unpadded base64url: %q", token)
	}

	got, err := DecodeShare(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Input.Spend != 1000 || got.Input.MarketSegmentID != "ecommerce" {
		t.Fatalf("unexpected input: %+v", got.Input)
	}
	if len(got.Projection.Periods) != 2 || got.Projection.Totals.TotalRevenue != 2108.4 {
		t.Fatalf("unexpected projection: %+v", got.Projection)
	}
}

func TestDecodeShareAcceptsPadding(t *testing.T) {
	token, err := EncodeShare(sampleShared())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if pad := len(token) % 4; pad != 0 {
		token += strings.Repeat("=", 4-pad)
	}
	if _, err := DecodeShare(token); err != nil {
		t.Fatalf("decode padded token: %v", err)
	}
}

func TestDecodeShareRejectsBadTokens(t *testing.T) {
	incomplete, err := EncodeShare(Shared{Input: roas.Request{Spend: 1000}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for name, token := range map[string]string{
		"not base64":         "***",
		"not json":           "bm90LWpzb24",
		"missing projection": incomplete,
		"empty":              "",
	} {
		if _, err := DecodeShare(token); !errors.Is(err, ErrInvalidShareToken) {
			t.Errorf("%s: expected ErrInvalidShareToken, got %v", name, err)
		}
	}
}
