// Package sqlguard is the static gate between generated SQL and the database.
// Everything here is pure: no I/O, no state.
package sqlguard

import (
	"regexp"
	"strings"

	"chat-budgeting-be/pkg/apperror"
)

// BlockedKeywords are rejected anywhere in a statement as whole words.
var BlockedKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE", "TRUNCATE",
	"REPLACE", "GRANT", "REVOKE", "MERGE", "CALL", "EXEC", "EXECUTE",
	"RENAME", "LOCK", "UNLOCK", "HANDLER", "LOAD", "ATTACH", "DETACH",
	"PRAGMA", "OUTFILE", "DUMPFILE",
}

var (
	selectPrefix   = regexp.MustCompile(`(?i)^SELECT\b`)
	blockedPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(BlockedKeywords, "|") + `)\b`)
	openFence      = regexp.MustCompile("^```[A-Za-z0-9_-]*")
)

// Sanitize strips markdown code fences and surrounding whitespace from raw
// model output. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	for strings.HasPrefix(s, "```") {
		s = openFence.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
	}
	for strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// IsSafeSelectQuery reports whether stmt is exactly one read-only SELECT.
func IsSafeSelectQuery(stmt string) bool {
	return check(stmt) == ""
}

// Validate returns an *apperror.UnsafeQueryError describing the first rule
// stmt breaks, or nil.
func Validate(stmt string) error {
	if reason := check(stmt); reason != "" {
		return &apperror.UnsafeQueryError{Reason: reason}
	}
	return nil
}

func check(stmt string) string {
	s := strings.TrimSpace(stmt)
	if s == "" {
		return "empty statement"
	}
	if !selectPrefix.MatchString(s) {
		return "statement does not start with SELECT"
	}
	switch n := strings.Count(s, ";"); {
	case n > 1:
		return "multiple statement separators"
	case n == 1 && !strings.HasSuffix(s, ";"):
		return "content after statement separator"
	}
	if strings.Contains(s, "--") || strings.Contains(s, "/*") {
		return "comment markers are not allowed"
	}
	if kw := blockedPattern.FindString(s); kw != "" {
		return "blocked keyword " + strings.ToUpper(kw)
	}
	return ""
}
