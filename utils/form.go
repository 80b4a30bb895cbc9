package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionalInt parses an optional integer form field. Blank input yields nil.
func OptionalInt(field, value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number, got %q", field, value)
	}
	return &n, nil
}

// OptionalUint parses an optional id form field. Blank input yields nil.
func OptionalUint(field, value string) (*uint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s must be a positive number, got %q", field, value)
	}
	id := uint(n)
	return &id, nil
}

// OptionalString trims value and returns nil when nothing is left.
func OptionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
