// Package validate turns raw upload input into a typed cookie payload or a
// rejection reason.
package validate

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

// MaxCookieFileSize is the hard cap on uploaded cookie files (1 MiB)
const MaxCookieFileSize = 1 << 20

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Reason identifies why an uploaded file was rejected
type Reason string

const (
	NotJSON     Reason = "NotJSON"
	TooLarge    Reason = "TooLarge"
	ReadError   Reason = "ReadError"
	InvalidJSON Reason = "InvalidJSON"
)

// RejectionError is returned when an uploaded file fails validation
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(reason Reason, message string) *RejectionError {
	return &RejectionError{Reason: reason, Message: message}
}

// Username reports whether a username is 3-20 characters of letters,
// digits and underscores, after trimming surrounding whitespace.
func Username(username string) bool {
	trimmed := strings.TrimSpace(username)
	return len(trimmed) >= 3 && len(trimmed) <= 20 && usernamePattern.MatchString(trimmed)
}

// CookieFile validates an uploaded cookie file and returns its payload.
// Checks run in order and stop at the first failure: JSON content type or
// .json extension, size cap, full read, syntactic JSON parse. The payload is
// returned as raw bytes; its structure is defined by the external site's
// cookie export format and never interpreted here.
func CookieFile(fileName, contentType string, size int64, r io.Reader) (json.RawMessage, error) {
	if !strings.Contains(contentType, "json") && !strings.HasSuffix(fileName, ".json") {
		return nil, reject(NotJSON, "Please upload a JSON file")
	}

	if size > MaxCookieFileSize {
		return nil, reject(TooLarge, "File size must be less than 1MB")
	}

	content, err := io.ReadAll(io.LimitReader(r, MaxCookieFileSize+1))
	if err != nil {
		return nil, reject(ReadError, "Failed to read file")
	}
	if len(content) > MaxCookieFileSize {
		// declared size was wrong or unknown
		return nil, reject(TooLarge, "File size must be less than 1MB")
	}

	if !json.Valid(content) {
		return nil, reject(InvalidJSON, "Invalid JSON file format")
	}

	return json.RawMessage(content), nil
}
