package export

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/roasplan/internal/roas"
)

// ErrInvalidShareToken is returned when a token does not decode to a complete payload.
var ErrInvalidShareToken = errors.New("invalid share token")

// Shared is the payload carried by a share token.
type Shared struct {
	Input      roas.Request     `json:"input"`
	Projection *roas.Projection `json:"projection"`
}

// EncodeShare packs s into an unpadded base64url token.
func EncodeShare(s Shared) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeShare unpacks a token produced by EncodeShare. Padded tokens are accepted.
func DecodeShare(token string) (Shared, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return Shared{}, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}

	var s Shared
	if err := json.Unmarshal(raw, &s); err != nil {
		return Shared{}, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	if s.Input.Spend <= 0 || s.Projection == nil || len(s.Projection.Periods) == 0 {
		return Shared{}, fmt.Errorf("%w: missing input or projection", ErrInvalidShareToken)
	}
	return s, nil
}
