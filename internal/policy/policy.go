package policy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// Policy holds the safety and triage tables shared by every session.
// It is built once at startup and must not be mutated afterwards.
type Policy struct {
	EmergencyKeywords   []string `yaml:"emergency_keywords"`
	ProhibitedTerms     []string `yaml:"prohibited_terms"`
	Disclaimers         []string `yaml:"disclaimers"`
	EmergencyDisclaimer string   `yaml:"emergency_disclaimer"`
	GuidanceDisclaimer  string   `yaml:"guidance_disclaimer"`

	DisclaimerPrefixLength  int `yaml:"disclaimer_prefix_length"`
	MinDisclaimerTextLength int `yaml:"min_response_length_for_disclaimer"`

	AmbiguityThreshold       float64 `yaml:"ambiguity_threshold"`
	RuleMatchThreshold       float64 `yaml:"rule_match_threshold"`
	EmergencyConfidenceFloor float64 `yaml:"emergency_confidence_floor"`
}

// Default returns the embedded policy. The embedded file is part of the
// binary, so a parse failure is a programming error.
func Default() *Policy {
	p, err := Parse(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("load default_policy.yaml: %v", err))
	}
	return p
}

// Load reads a policy file. An empty path yields the embedded default.
func Load(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML policy document.
func Parse(data []byte) (*Policy, error) {
	// keys missing from data keep these values; an explicit 0 is honoured
	p := Policy{
		DisclaimerPrefixLength:   20,
		AmbiguityThreshold:       0.5,
		RuleMatchThreshold:       0.5,
		EmergencyConfidenceFloor: 0.85,
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal policy: %w", err)
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Policy) normalize() {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	p.EmergencyKeywords = lower(p.EmergencyKeywords)
	p.ProhibitedTerms = lower(p.ProhibitedTerms)
	if p.DisclaimerPrefixLength <= 0 {
		p.DisclaimerPrefixLength = 20
	}
}

func (p *Policy) Validate() error {
	if len(p.EmergencyKeywords) == 0 {
		return fmt.Errorf("policy: emergency_keywords must not be empty")
	}
	if len(p.Disclaimers) == 0 {
		return fmt.Errorf("policy: disclaimers must not be empty")
	}
	if p.EmergencyDisclaimer == "" || p.GuidanceDisclaimer == "" {
		return fmt.Errorf("policy: emergency_disclaimer and guidance_disclaimer are required")
	}
	for name, v := range map[string]float64{
		"ambiguity_threshold":        p.AmbiguityThreshold,
		"rule_match_threshold":       p.RuleMatchThreshold,
		"emergency_confidence_floor": p.EmergencyConfidenceFloor,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("policy: %s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// AllDisclaimers lists every configured disclaimer, pool first.
func (p *Policy) AllDisclaimers() []string {
	out := make([]string, 0, len(p.Disclaimers)+2)
	out = append(out, p.Disclaimers...)
	return append(out, p.EmergencyDisclaimer, p.GuidanceDisclaimer)
}
