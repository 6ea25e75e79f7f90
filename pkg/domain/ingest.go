package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Genetics maps a trait category to the creature's genotype string.
//
// Stored selections come in two shapes: a bare genotype string, or a record
// such as {"genotype": "Aa", "phenotype": "Normal"}. Both decode to the bare
// genotype so nothing downstream branches on the input shape.
type Genetics map[string]string

type geneSelectionRecord struct {
	Genotype string `json:"genotype" yaml:"genotype"`
}

// UnmarshalJSON accepts string or record values.
func (g *Genetics) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode genetics: %w", err)
	}
	if raw == nil {
		*g = nil
		return nil
	}
	out := make(Genetics, len(raw))
	for category, value := range raw {
		genotype, ok, err := decodeJSONSelection(value)
		if err != nil {
			return fmt.Errorf("decode genetics %q: %w", category, err)
		}
		if ok {
			out[category] = genotype
		}
	}
	*g = out
	return nil
}

func decodeJSONSelection(value json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(value)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return "", false, nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case trimmed[0] == '{':
		var rec geneSelectionRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return "", false, err
		}
		return rec.Genotype, true, nil
	default:
		return "", false, fmt.Errorf("unsupported gene selection %s", string(trimmed))
	}
}

// UnmarshalYAML accepts scalar or mapping values.
func (g *Genetics) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("decode genetics: line %d: expected mapping", value.Line)
	}
	out := make(Genetics, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		category := value.Content[i].Value
		node := value.Content[i+1]
		switch node.Kind {
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				continue
			}
			out[category] = node.Value
		case yaml.MappingNode:
			var rec geneSelectionRecord
			if err := node.Decode(&rec); err != nil {
				return fmt.Errorf("decode genetics %q: %w", category, err)
			}
			out[category] = rec.Genotype
		default:
			return fmt.Errorf("decode genetics %q: line %d: unsupported gene selection", category, node.Line)
		}
	}
	*g = out
	return nil
}

// geneTargetRecord is the structured goal target shape. Source data also uses
// plain genotype/phenotype keys; those fill the target when the explicit
// fields are absent.
type geneTargetRecord struct {
	TargetGenotype  string   `json:"target_genotype" yaml:"target_genotype"`
	TargetPhenotype string   `json:"target_phenotype" yaml:"target_phenotype"`
	Genotype        string   `json:"genotype" yaml:"genotype"`
	Phenotype       string   `json:"phenotype" yaml:"phenotype"`
	IsOptional      bool     `json:"is_optional" yaml:"is_optional"`
	ExcludedValues  []string `json:"excluded_values" yaml:"excluded_values"`
}

func (r geneTargetRecord) target() GeneTarget {
	t := GeneTarget{
		TargetGenotype:  r.TargetGenotype,
		TargetPhenotype: r.TargetPhenotype,
		IsOptional:      r.IsOptional,
		ExcludedValues:  r.ExcludedValues,
	}
	if t.TargetGenotype == "" {
		t.TargetGenotype = r.Genotype
	}
	if t.TargetPhenotype == "" {
		t.TargetPhenotype = r.Phenotype
	}
	return t
}

// UnmarshalJSON accepts a bare genotype string or a target record.
func (t *GeneTarget) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = GeneTarget{TargetGenotype: s}
		return nil
	}
	var rec geneTargetRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return fmt.Errorf("decode gene target: %w", err)
	}
	*t = rec.target()
	return nil
}

// UnmarshalYAML accepts a bare genotype scalar or a target mapping.
func (t *GeneTarget) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = GeneTarget{TargetGenotype: value.Value}
		return nil
	}
	var rec geneTargetRecord
	if err := value.Decode(&rec); err != nil {
		return fmt.Errorf("decode gene target: %w", err)
	}
	*t = rec.target()
	return nil
}
