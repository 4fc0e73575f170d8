// Package policy holds the lookup tables that drive display and caveat
// behavior: the drug->gene requirement table, the risk-tone substring rules,
// and the error-phrase mapping. The tables are data, not code — they live in
// an embedded YAML file so they can be revised without touching call sites.
package policy

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var raw []byte

// ToneRule maps a risk-label substring to a display tone.
type ToneRule struct {
	Contains string `yaml:"contains"`
	Tone     string `yaml:"tone"`
}

// ErrorPhrase maps a known raw-error substring to a user-facing sentence.
type ErrorPhrase struct {
	Contains string `yaml:"contains"`
	Message  string `yaml:"message"`
}

// Tables is the full decoded policy file. Rule order is significant: tone and
// error-phrase matching are first-match-wins.
type Tables struct {
	Version       int               `yaml:"version"`
	RequiredGenes map[string]string `yaml:"required_genes"`
	Tones         []ToneRule        `yaml:"tones"`
	ErrorPhrases  []ErrorPhrase     `yaml:"error_phrases"`
}

// Default is the embedded policy, decoded once at startup.
var Default Tables

func init() {
	if err := yaml.Unmarshal(raw, &Default); err != nil {
		panic(fmt.Sprintf("policy: embedded policy.yaml is invalid: %v", err))
	}
}

// RequiredGene returns the gene a report for the given drug must carry, if
// the drug is in the table. Lookup is case-insensitive.
func (t *Tables) RequiredGene(drug string) (string, bool) {
	gene, ok := t.RequiredGenes[strings.ToUpper(strings.TrimSpace(drug))]
	return gene, ok
}

// ToneFor returns the tone name for a risk label, or "" when no rule matches.
func (t *Tables) ToneFor(label string) string {
	lower := strings.ToLower(label)
	for _, r := range t.Tones {
		if r.Contains != "" && strings.Contains(lower, strings.ToLower(r.Contains)) {
			return r.Tone
		}
	}
	return ""
}

// MessageFor returns the user-facing sentence for a raw error string, or ""
// when no phrase matches.
func (t *Tables) MessageFor(rawMsg string) string {
	lower := strings.ToLower(rawMsg)
	for _, p := range t.ErrorPhrases {
		if p.Contains != "" && strings.Contains(lower, strings.ToLower(p.Contains)) {
			return p.Message
		}
	}
	return ""
}
