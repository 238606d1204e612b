package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetEnvFallbacks verifies unset and malformed variables fall back to defaults
func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("INVADERS_TEST_INT", "nope")
	t.Setenv("INVADERS_TEST_DUR", "7")

	if got := GetEnv("INVADERS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
	if got := GetEnvInt("INVADERS_TEST_INT", 3); got != 3 {
		t.Errorf("GetEnvInt = %d, want 3", got)
	}
	if got := GetEnvDuration("INVADERS_TEST_DUR", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration = %v, want 1s", got)
	}
	if got := GetEnvFloat("INVADERS_TEST_UNSET", 1.5); got != 1.5 {
		t.Errorf("GetEnvFloat = %v, want 1.5", got)
	}
}

// TestGetEnvParsed verifies well-formed values are parsed
func TestGetEnvParsed(t *testing.T) {
	t.Setenv("INVADERS_TEST_INT", "42")
	t.Setenv("INVADERS_TEST_DUR", "150ms")
	t.Setenv("INVADERS_TEST_FLOAT", "0.25")
	t.Setenv("INVADERS_TEST_STR", "")

	if got := GetEnvInt("INVADERS_TEST_INT", 0); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvDuration("INVADERS_TEST_DUR", 0); got != 150*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, want 150ms", got)
	}
	if got := GetEnvFloat("INVADERS_TEST_FLOAT", 0); got != 0.25 {
		t.Errorf("GetEnvFloat = %v, want 0.25", got)
	}
	// Set but empty is still "set"
	if got := GetEnv("INVADERS_TEST_STR", "x"); got != "" {
		t.Errorf("GetEnv = %q, want empty", got)
	}
}

// TestLoadDotEnv verifies .env files are loaded without overriding the environment
func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "INVADERS_DOTENV_NEW=from-file\nINVADERS_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INVADERS_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("INVADERS_DOTENV_NEW") })

	loaded := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	if loaded != path {
		t.Fatalf("LoadDotEnv loaded %q, want %q", loaded, path)
	}
	if got := os.Getenv("INVADERS_DOTENV_NEW"); got != "from-file" {
		t.Errorf("INVADERS_DOTENV_NEW = %q, want from-file", got)
	}
	if got := os.Getenv("INVADERS_DOTENV_SET"); got != "from-env" {
		t.Errorf("INVADERS_DOTENV_SET = %q, want from-env", got)
	}
}

// TestGetEnvBool verifies boolean parsing and fallback
func TestGetEnvBool(t *testing.T) {
	t.Setenv("INVADERS_TEST_ON", "true")
	t.Setenv("INVADERS_TEST_OFF", "0")
	t.Setenv("INVADERS_TEST_BAD", "maybe")

	if !GetEnvBool("INVADERS_TEST_ON", false) {
		t.Error("INVADERS_TEST_ON should be true")
	}
	if GetEnvBool("INVADERS_TEST_OFF", true) {
		t.Error("INVADERS_TEST_OFF should be false")
	}
	if !GetEnvBool("INVADERS_TEST_BAD", true) {
		t.Error("malformed value should fall back")
	}
	if GetEnvBool("INVADERS_TEST_UNSET_BOOL", false) {
		t.Error("unset value should fall back")
	}
}
