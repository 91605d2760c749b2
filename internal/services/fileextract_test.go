package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTextFromPath_Plain(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		expected string
	}{
		{"txt file", "notes.txt", "line one\nline two\n", "line one\nline two"},
		{"markdown file", "readme.md", "# Title\n\nBody\n", "# Title\n\nBody"},
		{"collapses blank runs", "gaps.txt", "a\n\n\n\nb\n", "a\n\nb"},
		{"trims line whitespace", "pad.txt", "  a  \n\t b \n", "a\nb"},
	}

	svc := NewFileExtractService()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.filename)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write fixture: %v", err)
			}

			got, err := svc.ExtractTextFromPath(path)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestExtractTextFromPath_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("  \n\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := NewFileExtractService().ExtractTextFromPath(path); err == nil {
		t.Error("Expected error for empty file")
	}
}

func TestExtractTextFromPath_UnsupportedType(t *testing.T) {
	if _, err := NewFileExtractService().ExtractTextFromPath("voice.mp3"); err == nil {
		t.Error("Expected error for unsupported attachment type")
	}
}
