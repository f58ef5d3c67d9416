package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Ravou/Neurograph/internal/types"
)

// codeBlockPattern matches markdown code blocks with an optional language tag.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON pulls a JSON object or array out of a model response that may
// wrap it in prose or markdown fences. Fenced blocks are tried first, then
// the first balanced {...} or [...] in the raw text. A response with no
// valid JSON is an invalid-response error, never silently substituted.
func ExtractJSON(response string) (string, error) {
	if jsonStr, found := extractFromCodeBlock(response); found {
		return jsonStr, nil
	}

	if jsonStr, found := extractRawJSON(response); found {
		return jsonStr, nil
	}

	return "", types.NewError(ErrCodeInvalidResponse,
		"no valid JSON object found in model response")
}

// ExtractJSONAs extracts JSON from a model response and unmarshals it into T.
func ExtractJSONAs[T any](response string) (T, error) {
	var out T

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return out, types.WrapError(ErrCodeInvalidResponse,
			"model response JSON does not match the expected structure", err)
	}

	return out, nil
}

func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}

		content := strings.TrimSpace(match[2])
		if isValidJSON(content) {
			return content, true
		}
	}

	return "", false
}

func extractRawJSON(response string) (string, bool) {
	start := strings.IndexAny(response, "{[")
	if start < 0 {
		return "", false
	}

	open := response[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	jsonStr := balancedSlice(response[start:], open, closing)
	if jsonStr != "" && isValidJSON(jsonStr) {
		return jsonStr, true
	}

	return "", false
}

// balancedSlice returns the prefix of s up to the bracket matching s[0],
// skipping brackets inside JSON strings.
func balancedSlice(s string, open, closing byte) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}

func isValidJSON(s string) bool {
	return json.Valid([]byte(s))
}
