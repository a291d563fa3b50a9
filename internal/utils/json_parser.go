package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSON    = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAny     = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKey   = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

const maxErrorSample = 100

// ParseModelJSON decodes a language model's reply into target. Chat models
// asked for a JSON object still sometimes return:
// - JSON wrapped in markdown fences (```json ... ```)
// - JSON with surrounding prose
// - JSON with trailing commas or unquoted keys
// Each repair is attempted in turn; the first one that decodes wins.
func ParseModelJSON(input string, target any) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty model output")
	}

	candidates := []string{
		input,
		extractFromMarkdown(input),
		extractJSONFromText(input),
		cleanAndFixJSON(input),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON object in model output: %s", truncate(input, maxErrorSample))
}

// extractFromMarkdown returns the body of the first fenced block that looks like JSON
func extractFromMarkdown(input string) string {
	if m := fencedJSON.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(input); len(m) > 1 {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			return body
		}
	}
	return ""
}

// extractJSONFromText finds the first balanced object, or failing that array, in prose
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if s := extractBalanced(input[start:], '{', '}'); s != "" {
			return s
		}
	}
	if start := strings.Index(input, "["); start >= 0 {
		if s := extractBalanced(input[start:], '[', ']'); s != "" {
			return s
		}
	}
	return ""
}

// extractBalanced returns the prefix of input up to the matching close rune,
// ignoring delimiters inside string literals. input must start with open.
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+len(string(close))]
			}
		}
	}
	return ""
}

// cleanAndFixJSON repairs the formatting mistakes models make most often
func cleanAndFixJSON(input string) string {
	s := strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if body := extractJSONFromText(s); body != "" {
		s = body
	} else if start := strings.IndexAny(s, "{["); start >= 0 {
		s = s[start:]
	}
	s = trailingComma.ReplaceAllString(s, "$1")
	s = unquotedKey.ReplaceAllString(s, `$1"$2"$3`)
	s = controlChars.ReplaceAllString(s, "")
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
