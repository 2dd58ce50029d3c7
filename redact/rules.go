// Package redact hides sensitive substrings in action output. Masks are
// literal strings registered at runtime by the script itself (add-mask);
// Redactor applies built-in secret and PII patterns to whole documents.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule detects sensitive data in a string and provides a replacement.
type Rule interface {
	Name() string
	Kind() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match represents a detected occurrence within a string.
type Match struct {
	Start int
	End   int
	Value string
}

type regexRule struct {
	name    string
	kind    string
	pattern *regexp.Regexp
}

func (r *regexRule) Name() string { return r.name }
func (r *regexRule) Kind() string { return r.kind }

func (r *regexRule) Detect(s string) []Match {
	locs := r.pattern.FindAllStringIndex(s, -1)
	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{Start: loc[0], End: loc[1], Value: s[loc[0]:loc[1]]}
	}
	return matches
}

func (r *regexRule) Replacement(_ Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// literalRule matches every non-overlapping occurrence of a fixed string.
type literalRule struct {
	value string
	fill  string
}

func (r *literalRule) Name() string { return "mask" }
func (r *literalRule) Kind() string { return "mask" }

func (r *literalRule) Detect(s string) []Match {
	if r.value == "" {
		return nil
	}
	var matches []Match
	offset := 0
	for {
		i := strings.Index(s[offset:], r.value)
		if i < 0 {
			return matches
		}
		start := offset + i
		end := start + len(r.value)
		matches = append(matches, Match{Start: start, End: end, Value: r.value})
		offset = end
	}
}

func (r *literalRule) Replacement(_ Match) string {
	return r.fill
}

// SecretRules returns the built-in secret detection rules.
func SecretRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "github_token",
			kind:    "secret",
			pattern: regexp.MustCompile(`(?:ghp_[a-zA-Z0-9]{36,}|gho_[a-zA-Z0-9]{36,}|github_pat_[a-zA-Z0-9_]{40,})`),
		},
		&regexRule{
			name:    "api_key",
			kind:    "secret",
			pattern: regexp.MustCompile(`(?:sk-[a-zA-Z0-9]{32,}|glpat-[a-zA-Z0-9\-]{20,}|AKIA[0-9A-Z]{16})`),
		},
		&regexRule{
			name:    "telegram_bot_token",
			kind:    "secret",
			pattern: regexp.MustCompile(`\b\d{8,10}:AA[a-zA-Z0-9_\-]{33}\b`),
		},
		&regexRule{
			name:    "private_key",
			kind:    "secret",
			pattern: regexp.MustCompile(`-----BEGIN [A-Z ]+PRIVATE KEY-----`),
		},
		&regexRule{
			name:    "jwt",
			kind:    "secret",
			pattern: regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_.+/=]+`),
		},
	}
}

// PIIRules returns the built-in PII detection rules.
func PIIRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "email",
			kind:    "pii",
			pattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		},
		&regexRule{
			name:    "ipv4",
			kind:    "pii",
			pattern: regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		},
		&regexRule{
			name:    "android_serial",
			kind:    "pii",
			pattern: regexp.MustCompile(`\bro\.serialno=\S+`),
		},
	}
}
