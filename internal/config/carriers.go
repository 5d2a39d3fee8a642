package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed carriers.yaml
var defaultCarriersYAML []byte

type carrierFile struct {
	Gateways map[string]string `yaml:"gateways"`
}

// LoadCarrierGateways returns the carrier → email-domain-suffix table used by
// the SMS channel. The built-in table can be replaced wholesale by pointing
// CARRIERS_FILE at a YAML file of the same shape.
func LoadCarrierGateways() (map[string]string, error) {
	raw := defaultCarriersYAML

	if path := os.Getenv("CARRIERS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read carriers file %s: %w", path, err)
		}
		raw = data
	}

	var parsed carrierFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid carriers config: %w", err)
	}
	if len(parsed.Gateways) == 0 {
		return nil, fmt.Errorf("carriers config defines no gateways")
	}

	return parsed.Gateways, nil
}
