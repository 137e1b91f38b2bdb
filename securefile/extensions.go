package securefile

import "strings"

// ExtensionRule pairs an allowed filename suffix with its matching policy.
// The rule list is ordered and borrowed from the caller for the duration of
// Open only.
type ExtensionRule struct {
	Ext             string
	CaseInsensitive bool
}

// matchesAllowedExtension reports whether name ends with one of the allowed
// extensions. An empty rule list allows every name. Matching is exact
// unless the individual rule opts into case-insensitive comparison.
func matchesAllowedExtension(name string, rules []ExtensionRule) bool {
	if len(rules) == 0 {
		return true
	}
	for _, rule := range rules {
		if rule.Ext == "" || len(name) < len(rule.Ext) {
			continue
		}
		suffix := name[len(name)-len(rule.Ext):]
		if rule.CaseInsensitive {
			if strings.EqualFold(suffix, rule.Ext) {
				return true
			}
		} else if suffix == rule.Ext {
			return true
		}
	}
	return false
}
