package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the global config directory under homeDir.
func EnsureHomeDirs(homeDir string) error {
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "tasklist"), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

// SetupTestHome creates a temp home directory, sets HOME, and clears the
// TASKLIST_* variables so the caller's environment cannot leak in.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"TASKLIST_API_BASE_URL", "TASKLIST_PAGE_SIZE", "TASKLIST_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return homeDir
}

// WriteGlobalConfig writes content to the global config file under homeDir.
func WriteGlobalConfig(t testing.TB, homeDir, content string) {
	t.Helper()

	path := filepath.Join(homeDir, ".config", "tasklist", "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write global config: %v", err)
	}
}
