package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := loadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(cfg.Projects) != 0 {
		t.Errorf("empty config has projects: %v", cfg.Projects)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[projects]
work = "/srv/tasks/work"
side = "~/side/tasks"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Projects["work"] != "/srv/tasks/work" {
		t.Errorf("work = %q", cfg.Projects["work"])
	}
	if cfg.Projects["side"] != "~/side/tasks" {
		t.Errorf("side = %q", cfg.Projects["side"])
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("projects = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFile(path); err == nil {
		t.Error("invalid TOML should error")
	}
}

func TestProjectDir(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cfg := &Config{Projects: map[string]string{
		"work": "/srv/tasks/work",
		"side": "~/side/tasks",
	}}

	dir, err := cfg.ProjectDir("work")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/tasks/work" {
		t.Errorf("work dir = %q", dir)
	}

	dir, err = cfg.ProjectDir("side")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(homeDir, "side", "tasks") {
		t.Errorf("side dir = %q", dir)
	}
}

func TestProjectDirDefaults(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cfg := &Config{}

	// The default project works unconfigured.
	dir, err := cfg.ProjectDir("")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(homeDir, ".windtask", "tasks") {
		t.Errorf("default dir = %q", dir)
	}

	// Other unconfigured projects do not.
	if _, err := cfg.ProjectDir("nope"); !errors.Is(err, ErrUnknownProject) {
		t.Errorf("got %v, want ErrUnknownProject", err)
	}
}

func TestProjectDirInvalidName(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.ProjectDir("no/slashes"); !errors.Is(err, ErrInvalidProjectName) {
		t.Errorf("got %v, want ErrInvalidProjectName", err)
	}
}

func TestValidProjectName(t *testing.T) {
	for _, name := range []string{"default", "my-project", "a_b.c", "Work2"} {
		if !ValidProjectName(name) {
			t.Errorf("%q should be valid", name)
		}
	}
	for _, name := range []string{"", "has space", "slash/y", "dot dot"} {
		if ValidProjectName(name) {
			t.Errorf("%q should be invalid", name)
		}
	}
}
