// Package grouping applies window rules to tabs built from tmux windows.
package grouping

import (
	"regexp"

	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/tabset"
	"github.com/b/tabset/pkg/tmux"
)

type compiledRule struct {
	re   *regexp.Regexp
	rule config.WindowRule
}

func compile(rules []config.WindowRule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledRule{re: re, rule: r})
	}
	return compiled
}

// Match returns the first rule whose pattern matches the window name.
// Rules with invalid patterns never match.
func Match(name string, rules []config.WindowRule) (config.WindowRule, bool) {
	for _, r := range compile(rules) {
		if r.re.MatchString(name) {
			return r.rule, true
		}
	}
	return config.WindowRule{}, false
}

// Apply marks the tabs of matching windows hidden or disabled and sets a
// rule's label when it has one. Tabs are matched to windows by id.
func Apply(tabs []tabset.Tab, windows []tmux.Window, rules []config.WindowRule) []tabset.Tab {
	if len(rules) == 0 {
		return tabs
	}
	compiled := compile(rules)
	names := make(map[string]string, len(windows))
	for _, w := range windows {
		names[w.ID] = w.Name
	}

	out := make([]tabset.Tab, len(tabs))
	for i, t := range tabs {
		out[i] = t
		name, ok := names[t.ID]
		if !ok {
			continue
		}
		for _, r := range compiled {
			if !r.re.MatchString(name) {
				continue
			}
			if r.rule.Hide {
				out[i].Unavailable = true
			}
			if r.rule.Disable {
				out[i].Disabled = true
			}
			if r.rule.Label != "" {
				out[i].Label = r.rule.Label
			}
			break
		}
	}
	return out
}
