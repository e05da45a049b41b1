// Package validators provides validation functions for service catalog entries.
package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minServiceNameLength = 3
	maxServiceNameLength = 200
)

var (
	// Namespace pattern: must start and end with alphanumeric, can contain dots and hyphens in the middle
	namespacePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]*[a-zA-Z0-9])?$`)

	// Name pattern: must start and end with alphanumeric, can contain dots, underscores, and hyphens in the middle
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)
)

// ValidateServiceName validates a catalog service name.
// The name must be in the form namespace/name, where the namespace usually identifies
// the team or provider operating the service.
// Returns the validated name (trimmed) and an error if validation fails.
//
// Format requirements:
// - Must contain exactly one '/' separator
// - Namespace (before /): [a-zA-Z0-9][a-zA-Z0-9.-]*[a-zA-Z0-9]
// - Name (after /): [a-zA-Z0-9][a-zA-Z0-9._-]*[a-zA-Z0-9]
// - Total length: 3-200 characters
//
// Examples of valid names:
//   - sds/swot-reproject
//   - podaac/l2-subsetter
//   - nasa.gesdisc/giovanni_regrid
//
// Examples of invalid names:
//   - l2-subsetter (missing slash)
//   - sds//swot (multiple slashes)
//   - .sds/swot (namespace starts with dot)
//   - sds/swot- (name ends with dash)
func ValidateServiceName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("service name cannot be empty")
	}

	// Check the separator before the length for better error messages
	slashCount := strings.Count(name, "/")
	if slashCount == 0 {
		return "", fmt.Errorf("service name must be in format 'namespace/name' (e.g., 'sds/swot-reproject')")
	}
	if slashCount > 1 {
		return "", fmt.Errorf("service name must contain exactly one '/' separator")
	}

	namespace, namePart, _ := strings.Cut(name, "/")
	if namespace == "" {
		return "", fmt.Errorf("namespace part cannot be empty")
	}
	if namePart == "" {
		return "", fmt.Errorf("name part cannot be empty")
	}

	if len(name) < minServiceNameLength {
		return "", fmt.Errorf("service name must be at least %d characters long", minServiceNameLength)
	}
	if len(name) > maxServiceNameLength {
		return "", fmt.Errorf("service name exceeds maximum length of %d characters", maxServiceNameLength)
	}
	if !namespacePattern.MatchString(namespace) {
		return "", fmt.Errorf(
			"namespace '%s' is invalid. Namespace must start and end with alphanumeric characters, "+
				"and may contain dots and hyphens in the middle",
			namespace,
		)
	}
	if !namePattern.MatchString(namePart) {
		return "", fmt.Errorf(
			"name '%s' is invalid. Name must start and end with alphanumeric characters, "+
				"and may contain dots, underscores, and hyphens in the middle",
			namePart,
		)
	}

	return name, nil
}

// IsValidServiceName reports whether name passes ValidateServiceName.
func IsValidServiceName(name string) bool {
	_, err := ValidateServiceName(name)
	return err == nil
}

// ValidateCollectionID checks that a collection identifier is non-empty and contains no whitespace.
func ValidateCollectionID(id string) error {
	if id == "" {
		return fmt.Errorf("collection id cannot be empty")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("collection id '%s' must not contain whitespace", id)
	}
	return nil
}
