package logging

import (
	"context"
	"testing"

	"github.com/inkpress/go-blog/pkg/interfaces"
)

func TestModuleLoggerDefaultsToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "blog.posts")
	if logger == nil {
		t.Fatal("expected logger")
	}
	// must not panic
	logger.Info("message", "key", "value")
	logger.WithContext(context.Background()).Debug("message")
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	provider := &stubProvider{logger: &stubLogger{}}
	logger := PostsLogger(provider)

	stub, ok := logger.(*stubLogger)
	if !ok {
		t.Fatalf("expected provider logger, got %T", logger)
	}
	if provider.requested != "blog.posts" {
		t.Fatalf("expected posts namespace requested, got %q", provider.requested)
	}
	if stub.fields["module"] != "blog.posts" {
		t.Fatalf("expected module field, got %#v", stub.fields)
	}
}

func TestWithDocumentContext(t *testing.T) {
	base := &stubLogger{}
	logger := WithDocumentContext(base, " content/post.md ", "hello-world", "import")

	stub, ok := logger.(*stubLogger)
	if !ok {
		t.Fatalf("expected fields logger, got %T", logger)
	}
	if stub.fields["document_path"] != "content/post.md" {
		t.Fatalf("expected trimmed path, got %#v", stub.fields)
	}
	if stub.fields["slug"] != "hello-world" || stub.fields["sync_action"] != "import" {
		t.Fatalf("unexpected fields %#v", stub.fields)
	}

	same := WithDocumentContext(base, "  ", "", "")
	if same != interfaces.Logger(base) {
		t.Fatal("expected empty fields to return the logger unchanged")
	}
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"slug": "hello"})
	ctx = ContextWithFields(ctx, map[string]any{"action": "import"})

	fields := ContextFields(ctx)
	if fields["slug"] != "hello" || fields["action"] != "import" {
		t.Fatalf("expected merged fields, got %#v", fields)
	}

	fields["slug"] = "mutated"
	if again := ContextFields(ctx); again["slug"] != "hello" {
		t.Fatalf("expected stored fields isolated from mutation, got %#v", again)
	}
}

type stubProvider struct {
	logger    *stubLogger
	requested string
}

func (p *stubProvider) GetLogger(name string) interfaces.Logger {
	p.requested = name
	return p.logger
}

type stubLogger struct {
	fields map[string]any
}

func (l *stubLogger) Trace(string, ...any) {}
func (l *stubLogger) Debug(string, ...any) {}
func (l *stubLogger) Info(string, ...any)  {}
func (l *stubLogger) Warn(string, ...any)  {}
func (l *stubLogger) Error(string, ...any) {}
func (l *stubLogger) Fatal(string, ...any) {}

func (l *stubLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *stubLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &stubLogger{fields: merged}
}
