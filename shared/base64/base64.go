// Package base64 handles images sent inline as data URLs (data:image/png;base64,...).
package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrNotDataURL = errors.New("value is not a base64 data URL")

// GetContentType returns the media type of a data URL, or "" when value is not one.
func GetContentType(value string) string {
	if !strings.HasPrefix(value, dataPrefix) {
		return ""
	}

	end := strings.Index(value, base64Marker)
	if end < len(dataPrefix) {
		return ""
	}

	return value[len(dataPrefix):end]
}

func IsDataURL(value string) bool {
	return GetContentType(value) != ""
}

// Decode splits a data URL into its media type and decoded payload.
func Decode(value string) (contentType string, data []byte, err error) {
	contentType = GetContentType(value)
	if contentType == "" {
		return "", nil, ErrNotDataURL
	}

	payload := value[strings.Index(value, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL: %w", err)
	}

	return contentType, data, nil
}

// DecodedLen estimates the payload size without decoding it.
func DecodedLen(value string) int {
	idx := strings.Index(value, base64Marker)
	if idx < 0 {
		return len(value)
	}

	return stdBase64.StdEncoding.DecodedLen(len(value) - idx - len(base64Marker))
}
