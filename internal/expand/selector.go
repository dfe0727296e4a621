package expand

import (
	"strings"
	"unicode"
)

// flowControl directives do not address anything themselves.
var flowControl = map[string]bool{
	"for":   true,
	"each":  true,
	"while": true,
	"if":    true,
	"else":  true,
}

// directiveName returns the name of an @-frame ("media" for "@media screen").
func directiveName(frame string) (string, bool) {
	rest, ok := strings.CutPrefix(frame, "@")
	if !ok {
		return "", false
	}
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_')
	})
	if end < 0 {
		end = len(rest)
	}
	return rest[:end], true
}

func isFlowControl(frame string) bool {
	name, ok := directiveName(frame)
	return ok && flowControl[name]
}

// Expand joins the alternatives of frames with ", ".
func Expand(frames []string, separator string) string {
	return strings.Join(Alternatives(frames, separator), ", ")
}

// Alternatives computes every selector addressed by frames, outer levels
// varying slowest. A part containing '&' has the parent substituted in
// place; any other part is appended to the parent with separator.
func Alternatives(frames []string, separator string) []string {
	var acc []string
	for _, frame := range frames {
		if isFlowControl(frame) {
			continue
		}
		parts := splitFrame(frame)
		if len(parts) == 0 {
			continue
		}
		if acc == nil {
			acc = parts
			continue
		}
		next := make([]string, 0, len(acc)*len(parts))
		for _, prior := range acc {
			for _, part := range parts {
				next = append(next, combine(prior, part, separator))
			}
		}
		acc = next
	}
	for i := range acc {
		acc[i] = strings.TrimSpace(acc[i])
	}
	return acc
}

func combine(prior, part, separator string) string {
	prior = strings.TrimSpace(prior)
	if strings.Contains(part, "&") {
		return strings.ReplaceAll(part, "&", prior)
	}
	return prior + separator + strings.TrimSpace(part)
}

// splitFrame splits a selector frame on top-level commas. Directive frames
// are never split.
func splitFrame(frame string) []string {
	frame = strings.TrimSpace(frame)
	if frame == "" {
		return nil
	}
	if strings.HasPrefix(frame, "@") {
		return []string{frame}
	}
	var parts []string
	for _, p := range splitTopLevel(frame) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// splitTopLevel splits s on commas outside brackets, interpolations and
// quoted strings.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
