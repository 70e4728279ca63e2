package bootstrap

import (
	"testing"
)

func TestBuildModuleWiresServices(t *testing.T) {
	module, err := BuildModule(Options{
		ContentDir: t.TempDir(),
		OutputDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if module.Module == nil {
		t.Fatal("expected module to be initialised")
	}
	if module.Markdown == nil {
		t.Fatal("expected markdown service")
	}
	if module.Generator == nil {
		t.Fatal("expected generator service")
	}
	if module.DB != nil {
		t.Fatal("expected no database without a DSN")
	}
	if module.Module.Container().LoggerProvider() == nil {
		t.Fatal("expected logger provider when logging feature is enabled")
	}
}

func TestBuildModuleWithDSN(t *testing.T) {
	module, err := BuildModule(Options{
		ContentDir: t.TempDir(),
		OutputDir:  t.TempDir(),
		DSN:        "file::memory:?cache=shared",
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if module.DB == nil {
		t.Fatal("expected bun database handle")
	}
	t.Cleanup(func() { _ = module.DB.Close() })
}

func TestBuildModuleReportsSchemaFailure(t *testing.T) {
	module, err := BuildModule(Options{
		ContentDir: t.TempDir(),
		OutputDir:  t.TempDir(),
		DSN:        "file:" + t.TempDir() + "/missing/blog.db?mode=rw",
	})
	if err == nil {
		t.Fatal("expected error for unopenable database path")
	}
	if module != nil {
		t.Fatalf("expected nil module on failure, got %#v", module)
	}
}

func TestSplitSlugs(t *testing.T) {
	if got := SplitSlugs("  "); got != nil {
		t.Fatalf("expected nil for blank input, got %#v", got)
	}
	got := SplitSlugs("hello-world, second-post ,,third")
	want := []string{"hello-world", "second-post", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
