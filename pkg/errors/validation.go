package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateColumnPath validates a dotted column path such as "tags.t".
// Paths are used as label-map keys in configuration files and as HTTP
// request fields, so they are checked before they reach the transform.
//
// The validation rules:
//   - No empty paths
//   - No empty segments (leading, trailing or doubled dots)
//   - No control characters
//   - Maximum length of 512 bytes
func ValidateColumnPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "column path cannot be empty")
	}

	const maxPathLength = 512
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "column path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "column path contains invalid control characters")
		}
	}

	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return New(ErrCodeInvalidPath, "column path %q has an empty segment", path)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateSheetName validates a spreadsheet sheet name.
// Spreadsheet applications limit names to 31 characters and reject a small
// set of punctuation.
func ValidateSheetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "sheet name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 31 {
		return New(ErrCodeInvalidName, "sheet name too long (max 31 characters)")
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return New(ErrCodeInvalidName, "sheet name contains invalid characters: %q", name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return New(ErrCodeInvalidName, "sheet name cannot start or end with an apostrophe")
	}
	return nil
}

// tableNameRegex matches identifiers accepted as export table or collection names.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateTableName validates an export table or collection name.
// Names are interpolated into DDL, so only plain identifiers are accepted.
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "table name cannot be empty")
	}
	if !tableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid table name: %q", name)
	}
	return nil
}
