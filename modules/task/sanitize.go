package task

import (
	"regexp"
	"strings"
)

// tagPattern matches markup tags, including an unterminated trailing "<...".
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// Sanitize returns a copy of p with markup stripped from every string value
// and surrounding whitespace trimmed. Non-string values are copied unchanged.
func Sanitize(p Payload) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		if s, ok := v.(string); ok {
			out[k] = strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
			continue
		}
		out[k] = v
	}
	return out
}
