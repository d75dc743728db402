package errors

import (
	"strings"
	"unicode"
)

// MaxCaptionLength bounds the length of a caption line printed on a label.
const MaxCaptionLength = 256

// ValidateCaption validates a text line printed under a barcode.
// Empty captions are allowed; control characters are not, since they have no
// printable glyph and would corrupt the page description.
func ValidateCaption(field, text string) error {
	if len(text) > MaxCaptionLength {
		return New(ErrCodeInvalidRecord, "%s too long (max %d characters)", field, MaxCaptionLength)
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateFilename validates an artifact filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
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
