package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled {
		t.Fatal("expected module enabled by default")
	}
	if cfg.Content.ContentDir != "content" || cfg.Content.Pattern != "*.md" {
		t.Fatalf("unexpected content defaults %+v", cfg.Content)
	}
	if !cfg.Content.Recursive {
		t.Fatal("expected recursive content loading by default")
	}
	if cfg.Generator.OutputDir != "dist" {
		t.Fatalf("unexpected output dir %q", cfg.Generator.OutputDir)
	}
	if !cfg.Features.Generator {
		t.Fatal("expected generator feature on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestValidateContentDirRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.ContentDir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrContentDirRequired) {
		t.Fatalf("expected content dir error, got %v", err)
	}
}

func TestValidateGeneratorOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected output dir error, got %v", err)
	}

	cfg.Features.Generator = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled feature to skip output check, got %v", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Workers = -1
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorWorkersInvalid) {
		t.Fatalf("expected workers error, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true

	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected provider required, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected unknown provider, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected level error, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected format error, got %v", err)
	}

	cfg.Logging.Format = "pretty"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid logging config, got %v", err)
	}

	// console provider accepts any format since the format field is ignored
	cfg.Logging.Provider = "console"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected console provider to skip format check, got %v", err)
	}
}
