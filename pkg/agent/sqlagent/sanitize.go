package sqlagent

import (
	"regexp"
	"strings"
)

var (
	fencePattern     = regexp.MustCompile("(?m)^```[a-zA-Z]*\n|```$")
	selectPattern    = regexp.MustCompile(`(?i)\b(select|with)\b`)
	searchPathPrefix = "set search_path to"

	// Best-effort denylist of mutating keywords, matched as whole words.
	// This cannot catch every injection vector; the authoritative guard
	// is the read-only transaction plus the statement timeout.
	forbiddenPattern = regexp.MustCompile(`\b(insert|update|delete|drop|alter|truncate|create|grant|revoke|vacuum|analyze)\b`)
)

// Clean strips markdown fences and prose from a model reply and keeps
// only the statement text. A leading "SET search_path TO ..." directive
// line is preserved ahead of the extracted SELECT/WITH body so the
// executor can apply it separately.
func Clean(generated string) string {
	cleaned := fencePattern.ReplaceAllString(strings.TrimSpace(generated), "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	cleaned = strings.TrimSpace(cleaned)

	directive := ""
	if strings.HasPrefix(strings.ToLower(cleaned), searchPathPrefix) {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			directive = strings.TrimSpace(cleaned[:idx])
			cleaned = cleaned[idx+1:]
		} else {
			directive = strings.TrimSpace(cleaned)
			cleaned = ""
		}
		directive = strings.TrimRight(directive, ";")
	}

	// Extract from the first SELECT/WITH onwards, dropping any preamble
	if loc := selectPattern.FindStringIndex(cleaned); loc != nil {
		cleaned = cleaned[loc[0]:]
	}

	cleaned = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(cleaned), ";"))

	if directive != "" {
		if cleaned == "" {
			return directive
		}
		return directive + "\n" + cleaned
	}
	return cleaned
}

// SplitSearchPath separates an optional leading search_path directive
// from the statement body.
func SplitSearchPath(cleaned string) (directive, body string) {
	if !strings.HasPrefix(strings.ToLower(cleaned), searchPathPrefix) {
		return "", cleaned
	}
	idx := strings.Index(cleaned, "\n")
	if idx == -1 {
		return cleaned, ""
	}
	return cleaned[:idx], cleaned[idx+1:]
}

// Validate checks cleaned SQL against the read-only, single-statement
// policy. It returns an empty string when the text is acceptable, else a
// rejection message suitable for an error row. The directive line is
// checked too: the executor runs it verbatim, so nothing may be
// smuggled in after a semicolon there.
func Validate(cleaned string) string {
	directive, body := SplitSearchPath(cleaned)
	lowered := strings.ToLower(body)

	if forbiddenPattern.MatchString(strings.ToLower(cleaned)) {
		return "Only read-only SELECT queries are allowed"
	}
	if strings.Contains(strings.TrimRight(directive, ";"), ";") || strings.Contains(body, ";") {
		return "Multiple SQL statements are not allowed"
	}
	if !strings.HasPrefix(lowered, "select") && !strings.HasPrefix(lowered, "with") {
		return "Query must start with SELECT or WITH"
	}
	return ""
}
