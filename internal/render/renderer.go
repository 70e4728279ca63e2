package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/inkpress/go-blog/internal/tags"
	"github.com/inkpress/go-blog/pkg/interfaces"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// NewRenderer returns a TemplateRenderer backed by html/template. Templates
// found under baseDir override the embedded defaults by name. An empty
// baseDir serves the embedded defaults only.
func NewRenderer(baseDir string) (interfaces.TemplateRenderer, error) {
	if baseDir != "" {
		info, err := os.Stat(baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: inspect template directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("render: template path %q is not a directory", baseDir)
		}
	}
	return &goTemplateRenderer{baseDir: baseDir}, nil
}

type goTemplateRenderer struct {
	baseDir string
	once    sync.Once
	tpl     *template.Template
	err     error
}

func (r *goTemplateRenderer) ensureTemplates() (*template.Template, error) {
	r.once.Do(func() {
		tpl, err := template.New("site").Funcs(templateFuncs()).ParseFS(defaultTemplates, "templates/*.tmpl")
		if err != nil {
			r.err = err
			return
		}
		if r.baseDir != "" {
			var files []string
			err := filepath.WalkDir(r.baseDir, func(path string, entry fs.DirEntry, walkErr error) error {
				if walkErr != nil {
					return walkErr
				}
				if entry.IsDir() {
					return nil
				}
				ext := strings.ToLower(filepath.Ext(path))
				if ext != ".html" && ext != ".tmpl" {
					return nil
				}
				files = append(files, path)
				return nil
			})
			if err != nil {
				r.err = err
				return
			}
			if len(files) > 0 {
				tpl, err = tpl.ParseFiles(files...)
				if err != nil {
					r.err = err
					return
				}
			}
		}
		r.tpl = tpl
	})
	return r.tpl, r.err
}

func (r *goTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *goTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return "", err
	}
	resolved := resolveTemplateName(tpl, name)
	if resolved == "" {
		return "", fmt.Errorf("render: template %q not found", name)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.ExecuteTemplate(writer, resolved, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

func (r *goTemplateRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(templateFuncs()).Parse(content)
	if err != nil {
		return "", err
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.Execute(writer, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

// resolveTemplateName maps a bare layout name onto whichever registered
// template matches it, trying common file extensions.
func resolveTemplateName(tpl *template.Template, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	candidates := []string{name, name + ".tmpl", name + ".html"}
	for _, candidate := range candidates {
		if tpl.Lookup(candidate) != nil {
			return candidate
		}
	}
	return ""
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(value any) template.HTML { return toHTML(value) },
		"anchorID": tags.AnchorID,
		// Anchor ids are percent-escaped already; returning template.URL
		// keeps href byte-identical to the heading id.
		"anchorHref": func(anchor string) template.URL {
			return template.URL("#" + anchor)
		},
		"tagHref": func(name string) template.URL {
			return template.URL("/tags/#" + tags.AnchorID(name))
		},
		"displayDate": func(ts time.Time) string {
			if ts.IsZero() {
				return ""
			}
			return ts.Format("Jan 2, 2006")
		},
		"machineDate": func(ts time.Time) string {
			if ts.IsZero() {
				return ""
			}
			return ts.UTC().Format(time.RFC3339)
		},
	}
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
