package benchmark

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Simplici0/roasplan/internal/roas"
)

type catalogFile struct {
	Segments []roas.Segment `yaml:"segments"`
}

// LoadFile reads segment overrides from a YAML file of the form:
//
//	segments:
//	  - id: ecommerce
//	    average_order_value: 220
//	    ...
func LoadFile(path string) ([]roas.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark file: %w", err)
	}
	return Parse(data)
}

// Parse decodes segments from YAML bytes.
func Parse(data []byte) ([]roas.Segment, error) {
	var f catalogFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse benchmark file: %w", err)
	}
	for _, s := range f.Segments {
		if err := validate(s); err != nil {
			return nil, err
		}
	}
	return f.Segments, nil
}
