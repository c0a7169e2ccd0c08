package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lento-lang/lento/pkg/config"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestDecodeOverrides(t *testing.T) {
	src := "encoding: windows-1252\nverbose: true\npretty: false\ntypecheck: false\nprompt: \"> \"\n"
	cfg, err := config.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := config.Config{
		Encoding:  "windows-1252",
		Verbose:   true,
		Pretty:    false,
		TypeCheck: false,
		History:   ".lento_history",
		Prompt:    "> ",
	}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		fragment string
	}{
		{"unknown key", "colour: red\n", "field colour not found"},
		{"wrong type", "verbose: maybe\n", "parse"},
		{"bad encoding", "encoding: klingon\n", "unsupported text encoding"},
		{"empty prompt", "prompt: \"\"\n", "prompt must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.fragment) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.fragment)
			}
		})
	}
}

func TestValidationErrorListsIssues(t *testing.T) {
	_, err := config.Decode(strings.NewReader("encoding: klingon\nprompt: \"\"\n"))
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Errorf("issues = %v", verr.Issues)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Verbose {
		t.Error("verbose not set")
	}

	if _, err := config.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit path")
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.Default() {
		t.Errorf("got %+v", cfg)
	}
}
