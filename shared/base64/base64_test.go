package base64_test

import (
	"stays/shared/base64"
	"testing"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid image png",
			input:    pixel,
			expected: "image/png",
		},
		{
			name:     "valid text plain",
			input:    "data:text/plain;base64,SGVsbG8gV29ybGQ=",
			expected: "text/plain",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no data prefix",
			input:    "image/png;base64,iVBORw0KGgo=",
			expected: "",
		},
		{
			name:     "plain url",
			input:    "https://cdn.example.com/rooms/a.png",
			expected: "",
		},
		{
			name:     "no base64 marker",
			input:    "data:image/png,iVBORw0KGgo=",
			expected: "",
		},
		{
			name:     "only data prefix with base64",
			input:    "data:;base64,",
			expected: "",
		},
		{
			name:     "complex content type",
			input:    "data:image/svg+xml;charset=utf-8;base64,PHN2ZyB3aWR0aD0iMTAiIGhlaWdodD0iMTAiPjwvc3ZnPg==",
			expected: "image/svg+xml;charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base64.GetContentType(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,SGVsbG8gV29ybGQ=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if contentType != "text/plain" || string(data) != "Hello World" {
		t.Errorf("got %q %q", contentType, data)
	}

	if _, _, err := base64.Decode("https://cdn.example.com/a.png"); err == nil {
		t.Error("expected error for non data URL")
	}

	if _, _, err := base64.Decode("data:text/plain;base64,@@@"); err == nil {
		t.Error("expected error for corrupt payload")
	}

	if !base64.IsDataURL(pixel) {
		t.Error("expected pixel to be a data URL")
	}

	if got := base64.DecodedLen("data:text/plain;base64,SGVsbG8gV29ybGQ="); got < 11 {
		t.Errorf("decoded length %d too small", got)
	}
}
