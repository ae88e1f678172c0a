package util

import "strings"

// StripCodeFences removes a wrapping triple-backtick fence from a model
// response. The opening fence may carry a language tag in any case
// ("json", "JSON") on the same line.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if i := strings.IndexByte(rest, '\n'); i >= 0 && isFenceTag(rest[:i]) {
			rest = rest[i+1:]
		} else {
			rest = strings.TrimPrefix(rest, "json")
		}
		s = rest
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if len(tag) > 8 {
		return false
	}
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
