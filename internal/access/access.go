package access

import (
	"fmt"
	"regexp"
	"strings"

	"fbmanager/internal/model"
)

// Tier ordering mirrors evaluation order: public patterns are checked first,
// then free, premium and admin. A path matching no pattern at all is allowed
// (fail-open, preserved from the original behavior; see DESIGN.md).
type Rules struct {
	Public  []string
	Free    []string
	Premium []string
	Admin   []string
}

// Evaluator matches request paths against the ordered tier patterns.
type Evaluator struct {
	public  []*regexp.Regexp
	free    []*regexp.Regexp
	premium []*regexp.Regexp
	admin   []*regexp.Regexp
}

// NewEvaluator compiles the rule sets. Patterns support `*` (any characters
// within one path segment) and `**` (zero or more whole segments); all other
// regex metacharacters are escaped. Matching is case-sensitive and anchored.
func NewEvaluator(rules Rules) (*Evaluator, error) {
	e := &Evaluator{}
	for _, set := range []struct {
		patterns []string
		dst      *[]*regexp.Regexp
	}{
		{rules.Public, &e.public},
		{rules.Free, &e.free},
		{rules.Premium, &e.premium},
		{rules.Admin, &e.admin},
	} {
		for _, p := range set.patterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("invalid path pattern %q: %w", p, err)
			}
			*set.dst = append(*set.dst, re)
		}
	}
	return e, nil
}

// IsAllowed decides whether a caller with the given effective role may reach
// path. An empty effectiveRole means the caller is unauthenticated.
func (e *Evaluator) IsAllowed(path, effectiveRole string) bool {
	switch {
	case matchAny(e.public, path):
		return true
	case matchAny(e.free, path):
		return effectiveRole != ""
	case matchAny(e.premium, path):
		return effectiveRole == RolePremium || effectiveRole == model.RoleAdmin
	case matchAny(e.admin, path):
		return effectiveRole == model.RoleAdmin
	default:
		// No pattern claims this path: default allow.
		return true
	}
}

func matchAny(res []*regexp.Regexp, path string) bool {
	for _, re := range res {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// compilePattern translates a path pattern into an anchored regexp.
// `/**` at a segment boundary also matches the boundary itself, so
// `/api/posts/**` matches `/api/posts`.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "/**"):
			b.WriteString("(/.*)?")
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/]*")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}

	b.WriteString("$")
	return regexp.Compile(b.String())
}
