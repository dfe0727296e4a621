// Package errors provides structured error types for scssexpand.
package errors

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Code represents an error code.
type Code string

const (
	CodeFileNotFound     Code = "file_not_found"
	CodeReadError        Code = "read_error"
	CodeInvalidPosition  Code = "invalid_position"
	CodeInvalidConfig    Code = "invalid_config"
	CodeSelectorNotFound Code = "selector_not_found"
	CodeInvalidPattern   Code = "invalid_pattern"
)

// ExpandError is a structured error with suggestions for self-correction.
type ExpandError struct {
	Code        Code           `json:"code"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *ExpandError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("%s (did you mean: %s?)", e.Message, strings.Join(e.Suggestions, ", "))
	}
	return e.Message
}

// ToJSON returns the error as JSON bytes.
func (e *ExpandError) ToJSON() ([]byte, error) {
	wrapper := struct {
		Error *ExpandError `json:"error"`
	}{Error: e}
	return json.MarshalIndent(wrapper, "", "  ")
}

// As returns err as an *ExpandError, wrapping foreign errors under code.
func As(err error, code Code) *ExpandError {
	if ee, ok := err.(*ExpandError); ok {
		return ee
	}
	return &ExpandError{Code: code, Message: err.Error()}
}

// NewFileNotFound creates a file not found error.
func NewFileNotFound(path string) *ExpandError {
	return &ExpandError{
		Code:    CodeFileNotFound,
		Message: fmt.Sprintf("File '%s' not found", path),
		Context: map[string]any{"file": path},
	}
}

// NewReadError creates a read error.
func NewReadError(path string, err error) *ExpandError {
	return &ExpandError{
		Code:    CodeReadError,
		Message: fmt.Sprintf("Failed to read %s: %v", path, err),
		Context: map[string]any{"file": path},
	}
}

// NewInvalidPosition creates an invalid position error.
func NewInvalidPosition(file string, err error) *ExpandError {
	return &ExpandError{
		Code:    CodeInvalidPosition,
		Message: fmt.Sprintf("Invalid position in %s: %v", file, err),
		Context: map[string]any{"file": file},
	}
}

// NewInvalidConfig creates a configuration error.
func NewInvalidConfig(field string, value any, valid []string) *ExpandError {
	return &ExpandError{
		Code:        CodeInvalidConfig,
		Message:     fmt.Sprintf("Invalid %s %v", field, value),
		Suggestions: SuggestSimilar(fmt.Sprint(value), valid, 3),
		Context:     map[string]any{"field": field, "valid": valid},
	}
}

// NewSelectorNotFound creates a selector not found error with suggestions.
func NewSelectorNotFound(selector string, suggestions []string) *ExpandError {
	return &ExpandError{
		Code:        CodeSelectorNotFound,
		Message:     fmt.Sprintf("No rule resolves to '%s'", selector),
		Suggestions: suggestions,
		Context:     map[string]any{"selector": selector},
	}
}

// NewInvalidPattern creates a glob pattern error.
func NewInvalidPattern(pattern string, err error) *ExpandError {
	return &ExpandError{
		Code:    CodeInvalidPattern,
		Message: fmt.Sprintf("Invalid pattern '%s': %v", pattern, err),
		Context: map[string]any{"pattern": pattern},
	}
}

// SuggestSimilar finds strings similar to the target from a list of candidates.
// Uses Levenshtein distance, returns up to limit suggestions.
func SuggestSimilar(target string, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		s        string
		distance int
	}
	var scoredList []scored

	targetLower := strings.ToLower(target)
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		d := levenshtein(targetLower, strings.ToLower(c))
		// Only include if reasonably similar (distance less than half the target length)
		if d <= len(target)/2+2 {
			scoredList = append(scoredList, scored{c, d})
		}
	}

	sort.SliceStable(scoredList, func(i, j int) bool {
		return scoredList[i].distance < scoredList[j].distance
	})

	result := make([]string, 0, limit)
	for i := 0; i < len(scoredList) && i < limit; i++ {
		result = append(result, scoredList[i].s)
	}

	return result
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
