// Package testutil provides small test fixture helpers shared across
// the engine's package tests. Modelled on
// dtail/internal/testutil/testutil.go's TempFile idiom.
package testutil

import (
	"os"
	"testing"
)

// TempFile creates a temporary file with the given content and returns
// its path. The file is removed automatically when the test ends.
func TempFile(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "plog-test-*.txt")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to write to temp file: %v", err)
	}

	if err := tmpfile.Close(); err != nil {
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to close temp file: %v", err)
	}

	t.Cleanup(func() {
		os.Remove(tmpfile.Name())
	})

	return tmpfile.Name()
}
