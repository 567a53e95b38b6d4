package masking

import (
	"fmt"
	"log/slog"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule maps a key regex to mask options in a YAML rule file:
//
//	defaults:
//	  mode: full
//	rules:
//	  - key_pattern: "^AWS_"
//	    mode: partial
//	    show_start: 4
//	    show_end: 2
//	    min_mask: 3
type Rule struct {
	KeyPattern string `yaml:"key_pattern"`
	Mode       string `yaml:"mode"`
	MaskChar   string `yaml:"mask_char"`
	MaskLength int    `yaml:"mask_length"`
	ShowStart  int    `yaml:"show_start"`
	ShowEnd    int    `yaml:"show_end"`
	MinMask    int    `yaml:"min_mask"`
}

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	Defaults *Rule  `yaml:"defaults"`
	Rules    []Rule `yaml:"rules"`
}

type compiledRule struct {
	re   *regexp.Regexp
	opts Options
}

// RuleSet selects mask options by key. Rules are matched in file order; the
// first match wins, and keys matching no rule get the defaults. Immutable
// after creation, safe for concurrent use.
type RuleSet struct {
	rules    []compiledRule
	defaults Options
}

// ParseRules builds a RuleSet from YAML. All key patterns are compiled
// eagerly; invalid patterns are logged and skipped rather than failing the
// whole set.
func ParseRules(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing mask rules: %w", err)
	}

	rs := &RuleSet{defaults: DefaultOptions()}
	if file.Defaults != nil {
		opts, err := file.Defaults.options()
		if err != nil {
			return nil, fmt.Errorf("mask rule defaults: %w", err)
		}
		rs.defaults = opts
	}

	for i, rule := range file.Rules {
		if rule.KeyPattern == "" {
			slog.Warn("Mask rule has no key_pattern, skipping", "index", i)
			continue
		}
		re, err := regexp.Compile(rule.KeyPattern)
		if err != nil {
			slog.Warn("Failed to compile mask rule key pattern, skipping",
				"pattern", rule.KeyPattern, "error", err)
			continue
		}
		opts, err := rule.options()
		if err != nil {
			slog.Warn("Invalid mask rule options, skipping",
				"pattern", rule.KeyPattern, "error", err)
			continue
		}
		rs.rules = append(rs.rules, compiledRule{re: re, opts: opts})
	}

	return rs, nil
}

// OptionsFor returns the mask options of the first rule matching key, or the
// defaults when none match.
func (rs *RuleSet) OptionsFor(key string) Options {
	for _, r := range rs.rules {
		if r.re.MatchString(key) {
			return r.opts
		}
	}
	return rs.defaults
}

// options converts the YAML rule fields into engine options.
func (r *Rule) options() (Options, error) {
	opts := DefaultOptions()

	switch r.Mode {
	case "", "full":
		opts.Mode = ModeFull
	case "partial":
		opts.Mode = ModePartial
	default:
		return Options{}, fmt.Errorf("unknown mode %q", r.Mode)
	}

	if r.MaskChar != "" {
		runes := []rune(r.MaskChar)
		if len(runes) != 1 {
			return Options{}, fmt.Errorf("mask_char %q must be a single character", r.MaskChar)
		}
		opts.MaskChar = runes[0]
	}

	if r.MaskLength < 0 || r.ShowStart < 0 || r.ShowEnd < 0 || r.MinMask < 0 {
		return Options{}, fmt.Errorf("negative lengths are not allowed")
	}
	opts.MaskLength = r.MaskLength
	opts.ShowStart = r.ShowStart
	opts.ShowEnd = r.ShowEnd
	if r.MinMask > 0 {
		opts.MinMask = r.MinMask
	}

	return opts, nil
}
