package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds template, slot, asset and design identifiers.
const maxIDLength = 128

// idRegex matches identifiers safe to embed in cache keys, file names and URLs.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateID validates an identifier for safety and correctness.
// It rejects ids that could be used for path traversal or key injection
// when they end up in file names, object keys or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_', ':' and '-' only, starting alphanumeric
//   - No ".." sequences
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "%s id cannot contain %q", kind, "..")
	}

	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid %s id: %q", kind, id)
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates an asset URL.
// Remote URLs must use http or https; data: URLs are accepted for inline
// previews produced by the upload service.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	switch {
	case strings.HasPrefix(rawURL, "http://"),
		strings.HasPrefix(rawURL, "https://"),
		strings.HasPrefix(rawURL, "data:"):
		return nil
	}
	return New(ErrCodeInvalidInput, "URL must use http, https or data scheme")
}
