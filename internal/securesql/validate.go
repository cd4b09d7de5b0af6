package securesql

import (
	"fmt"
	"regexp"
)

// Validation collects the outcome of the query safety checks. All checks run
// independently so every violation is reported, not just the first.
type Validation struct {
	IsValid bool
	Errors  []string
}

type signature struct {
	pattern *regexp.Regexp
	reason  string
}

var injectionSignatures = []signature{
	{regexp.MustCompile(`(?i);\s*(drop|delete|insert|update|create|alter|truncate|grant|revoke)\b`), "statement chaining before DML keyword"},
	{regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`), "UNION SELECT injection"},
	{regexp.MustCompile(`(?i)\bor\s+'[^']*'\s*=\s*'`), "tautological OR comparison"},
	{regexp.MustCompile(`(?i)\bor\s+\d+\s*=\s*\d+`), "tautological OR comparison"},
	{regexp.MustCompile(`--`), "trailing line comment"},
	{regexp.MustCompile(`/\*`), "block comment"},
	{regexp.MustCompile(`(?i)\b(exec|execute)\s*[\s(]`), "EXEC statement"},
	{regexp.MustCompile(`(?i)\bxp_\w+`), "extended stored procedure"},
}

var concatIdioms = []signature{
	{regexp.MustCompile(`'\s*\+\s*`), "string concatenation with quoted literal"},
	{regexp.MustCompile(`\s*\+\s*'`), "string concatenation with quoted literal"},
	{regexp.MustCompile(`'\s*\|\|`), "string concatenation with quoted literal"},
	{regexp.MustCompile(`\|\|\s*'`), "string concatenation with quoted literal"},
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// ValidateParameterizedQuery checks raw SQL text and its positional values
// against known injection signatures, placeholder/value count mismatches and
// string-concatenation idioms. It never executes anything.
func ValidateParameterizedQuery(query string, values []any) Validation {
	var errs []string

	if query == "" {
		errs = append(errs, "query must not be empty")
	}

	seen := map[string]struct{}{}
	for _, sig := range injectionSignatures {
		if sig.pattern.MatchString(query) {
			if _, dup := seen[sig.reason]; dup {
				continue
			}
			seen[sig.reason] = struct{}{}
			errs = append(errs, fmt.Sprintf("query contains suspicious pattern: %s", sig.reason))
		}
	}

	for _, sig := range concatIdioms {
		if sig.pattern.MatchString(query) {
			errs = append(errs, fmt.Sprintf("query contains unsafe idiom: %s", sig.reason))
			break
		}
	}

	if declared := countPlaceholders(query); declared != len(values) {
		errs = append(errs, fmt.Sprintf("parameter count mismatch: query declares %d placeholders but %d values supplied", declared, len(values)))
	}

	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

func countPlaceholders(query string) int {
	matches := placeholderPattern.FindAllStringSubmatch(query, -1)
	distinct := map[string]struct{}{}
	for _, m := range matches {
		distinct[m[1]] = struct{}{}
	}
	return len(distinct)
}
