package expand

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Exclusion is the query mode of an @at-root directive.
type Exclusion int

const (
	// ExclusionNone is a bare @at-root.
	ExclusionNone Exclusion = iota
	// ExclusionWith is @at-root (with: ...).
	ExclusionWith
	// ExclusionWithout is @at-root (without: ...).
	ExclusionWithout
)

func (e Exclusion) String() string {
	switch e {
	case ExclusionWith:
		return "with"
	case ExclusionWithout:
		return "without"
	default:
		return "none"
	}
}

func (e Exclusion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// atRootRE captures the query mode and the space separated names.
var atRootRE = regexp.MustCompile(`@at-root\s*(?:\((with|without)\s*:\s*((?:[\w-]+\s*)+)\))?\s*`)

// AtRoot is the @at-root directive honoured for one resolution.
type AtRoot struct {
	Exclusion Exclusion `json:"exclusion" yaml:"exclusion"`
	Names     []string  `json:"names,omitempty" yaml:"names,omitempty"`
	Frame     int       `json:"frame" yaml:"frame"`
}

// FindAtRoot returns the last frame carrying an @at-root directive.
func FindAtRoot(frames []string) (AtRoot, bool) {
	var (
		at    AtRoot
		found bool
	)
	for i, frame := range frames {
		m := atRootRE.FindStringSubmatch(frame)
		if m == nil {
			continue
		}
		at = AtRoot{Frame: i, Names: strings.Fields(m[2])}
		switch m[1] {
		case "with":
			at.Exclusion = ExclusionWith
		case "without":
			at.Exclusion = ExclusionWithout
		default:
			at.Exclusion = ExclusionNone
		}
		found = true
	}
	return at, found
}

func (a AtRoot) has(name string) bool {
	return slices.Contains(a.Names, name)
}

// keeper returns the predicate deciding which ancestor frames survive.
// "rule" names plain selector frames and "all" names every frame.
func (a AtRoot) keeper() func(frame string) bool {
	switch a.Exclusion {
	case ExclusionWith:
		if a.has("all") {
			return func(string) bool { return true }
		}
		return func(frame string) bool {
			if name, ok := directiveName(frame); ok {
				return a.has(name)
			}
			return a.has("rule")
		}
	case ExclusionWithout:
		if a.has("all") {
			return func(string) bool { return false }
		}
		// "rule" drops plain frames only, whatever else is listed
		if a.has("rule") {
			return isDirectiveFrame
		}
		return func(frame string) bool {
			name, ok := directiveName(frame)
			return ok && !a.has(name)
		}
	default:
		return isDirectiveFrame
	}
}

func isDirectiveFrame(frame string) bool {
	_, ok := directiveName(frame)
	return ok
}

// Apply returns a new frame list with the ancestors of a.Frame filtered and
// the @at-root clause removed from the frame itself.
func (a AtRoot) Apply(frames []string) []string {
	keep := a.keeper()
	out := make([]string, 0, len(frames))
	for _, frame := range frames[:a.Frame] {
		if keep(frame) {
			out = append(out, frame)
		}
	}
	out = append(out, strings.TrimSpace(atRootRE.ReplaceAllString(frames[a.Frame], "")))
	return append(out, frames[a.Frame+1:]...)
}

func (a AtRoot) String() string {
	if a.Exclusion == ExclusionNone {
		return "@at-root"
	}
	return fmt.Sprintf("@at-root (%s: %s)", a.Exclusion, strings.Join(a.Names, " "))
}

// ApplyAtRoot applies the innermost @at-root directive in frames. Frames
// without one are returned unchanged.
func ApplyAtRoot(frames []string) []string {
	at, ok := FindAtRoot(frames)
	if !ok {
		return frames
	}
	return at.Apply(frames)
}
