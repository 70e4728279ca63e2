package generator

import "testing"

func TestBuildOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":              "index.html",
		"":               "index.html",
		"/posts/hello/":  "posts/hello/index.html",
		"posts/hello":    "posts/hello/index.html",
		"  /tags/  ":     "tags/index.html",
		"/nested/a/b/c/": "nested/a/b/c/index.html",
	}
	for route, want := range cases {
		if got := buildOutputPath(route); got != want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}

func TestJoinOutputPath(t *testing.T) {
	if got := joinOutputPath("dist", "posts/hello/index.html"); got != "dist/posts/hello/index.html" {
		t.Fatalf("unexpected join %q", got)
	}
	if got := joinOutputPath("", "/index.html"); got != "index.html" {
		t.Fatalf("expected leading slash trimmed, got %q", got)
	}
	if got := joinOutputPath("/dist/", "sitemap.xml"); got != "dist/sitemap.xml" {
		t.Fatalf("expected base trimmed, got %q", got)
	}
}
