package validate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"ab", false},
		{"abc", true},
		{"this_is_way_too_long_12345", false},
		{"bad name", false},
		{"alice_01", true},
		{"  abc  ", true},
		{"", false},
		{"über", false},
		{"abcdefghij1234567890", true},
		{"abcdefghij12345678901", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, Username(tt.username))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk error")
}

func rejectionReason(t *testing.T, err error) Reason {
	t.Helper()
	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	return rejection.Reason
}

func TestCookieFileRejectsNonJSONFiles(t *testing.T) {
	_, err := CookieFile("cookies.txt", "text/plain", 10, strings.NewReader("{}"))
	assert.Equal(t, NotJSON, rejectionReason(t, err))

	// a JSON content type is enough even without the extension
	payload, err := CookieFile("cookies.txt", "application/json", 2, strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(payload))

	// and so is the extension without the content type
	payload, err = CookieFile("cookies.json", "application/octet-stream", 2, strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(payload))
}

func TestCookieFileRejectsOversizedFiles(t *testing.T) {
	// declared size over the cap rejects before any read, regardless of content
	_, err := CookieFile("cookies.json", "application/json", MaxCookieFileSize+1, strings.NewReader("{}"))
	assert.Equal(t, TooLarge, rejectionReason(t, err))

	// unknown declared size still hits the cap on read
	oversized := bytes.Repeat([]byte("a"), MaxCookieFileSize+1)
	_, err = CookieFile("cookies.json", "application/json", -1, bytes.NewReader(oversized))
	assert.Equal(t, TooLarge, rejectionReason(t, err))
}

func TestCookieFileRejectsUnreadableFiles(t *testing.T) {
	_, err := CookieFile("cookies.json", "application/json", 10, failingReader{})
	assert.Equal(t, ReadError, rejectionReason(t, err))
}

func TestCookieFileRejectsInvalidJSON(t *testing.T) {
	_, err := CookieFile("cookies.json", "application/json", 9, strings.NewReader(`{"broken`))
	assert.Equal(t, InvalidJSON, rejectionReason(t, err))
}

func TestCookieFilePreservesPayloadVerbatim(t *testing.T) {
	content := `[{"name":"sessionid","value":"abc123","domain":".example.com"},{"name":"csrftoken","value":"xyz"}]`

	payload, err := CookieFile("cookies.json", "application/json", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, content, string(payload))
}

func TestCookieFileChecksShortCircuitInOrder(t *testing.T) {
	// a non-JSON name wins over an oversized declared length
	_, err := CookieFile("cookies.txt", "text/plain", MaxCookieFileSize+1, strings.NewReader("{}"))
	assert.Equal(t, NotJSON, rejectionReason(t, err))

	// the size cap wins over unreadable content
	_, err = CookieFile("cookies.json", "application/json", MaxCookieFileSize+1, failingReader{})
	assert.Equal(t, TooLarge, rejectionReason(t, err))
}
