package sim

import (
	"fmt"
	"strings"
)

// Policy is the rule governing how overlapping source events are scheduled.
// A dispatcher's policy is fixed for its lifetime.
type Policy int

const (
	PolicyMerge Policy = iota
	PolicySwitch
	PolicyExhaust
	PolicyConcat
)

// Policies lists every policy in declaration order.
var Policies = []Policy{PolicyMerge, PolicySwitch, PolicyExhaust, PolicyConcat}

// Pulse colors. Source pulses are neutral; completions carry the policy color.
const (
	DefaultColor = "lightgrey" // synthetic source pulses
	ClickColor   = "grey"      // live source pulses
	MergeColor   = "green"
	SwitchColor  = "red"
	ExhaustColor = "blue"
	ConcatColor  = "purple"
)

var policyNames = map[Policy]string{
	PolicyMerge:   "merge",
	PolicySwitch:  "switch",
	PolicyExhaust: "exhaust",
	PolicyConcat:  "concat",
}

var policyColors = map[Policy]string{
	PolicyMerge:   MergeColor,
	PolicySwitch:  SwitchColor,
	PolicyExhaust: ExhaustColor,
	PolicyConcat:  ConcatColor,
}

// ValidPolicies is the set of recognized policy names accepted by ParsePolicy.
// The *Map spellings are accepted as aliases.
var ValidPolicies = map[string]Policy{
	"merge":      PolicyMerge,
	"mergemap":   PolicyMerge,
	"switch":     PolicySwitch,
	"switchmap":  PolicySwitch,
	"exhaust":    PolicyExhaust,
	"exhaustmap": PolicyExhaust,
	"concat":     PolicyConcat,
	"concatmap":  PolicyConcat,
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// IsValidPolicy returns true if name is a recognized policy name.
func IsValidPolicy(name string) bool {
	_, ok := ValidPolicies[strings.ToLower(name)]
	return ok
}

// ParsePolicy converts a policy name to a Policy. Case-insensitive.
func ParsePolicy(name string) (Policy, error) {
	p, ok := ValidPolicies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown policy %q; valid: merge, switch, exhaust, concat", name)
	}
	return p, nil
}

// ParsePolicies converts a list of names, rejecting duplicates.
// An empty list yields every policy.
func ParsePolicies(names []string) ([]Policy, error) {
	if len(names) == 0 {
		return append([]Policy(nil), Policies...), nil
	}
	seen := make(map[Policy]bool, len(names))
	out := make([]Policy, 0, len(names))
	for _, name := range names {
		p, err := ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			return nil, fmt.Errorf("policy %q listed twice", name)
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Label is the label carried by this policy's completion events.
func (p Policy) Label() string {
	return strings.ToUpper(p.String()) + "_MAP"
}

// Color is the pulse color of this policy's completions.
func (p Policy) Color() string {
	if c, ok := policyColors[p]; ok {
		return c
	}
	return DefaultColor
}

// MarshalText implements encoding.TextMarshaler so policies appear by name
// in JSON reports and map keys.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
