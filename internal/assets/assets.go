// Package assets minifies the HTML templates and static files into dist/,
// which the server prefers in production.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".css":  "text/css",
	".html": "text/html",
	".js":   "application/javascript",
}

// Result describes one minified file.
type Result struct {
	Src    string
	Dst    string
	Before int
	After  int
}

// Reduction is the size saving in percent.
func (r Result) Reduction() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Before-r.After) / float64(r.Before) * 100
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d bytes -> %d bytes (%.1f%% reduction)", r.Src, r.Before, r.After, r.Reduction())
}

// NewMinifier returns a minifier for CSS, JS and HTML. HTML keeps Go
// template actions intact so minified templates still parse.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
		TemplateDelims:   html.GoTemplateDelims,
	})
	return m
}

// MediaType returns the media type for a file name or a bare type name
// such as "css".
func MediaType(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(name)
	}
	mt, ok := mediaTypes[ext]
	return mt, ok
}

// MinifyFile minifies src into dst, creating dst's directory.
func MinifyFile(m *minify.M, src, dst, mediaType string) (Result, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return Result{}, err
	}
	out, err := m.Bytes(mediaType, data)
	if err != nil {
		return Result{}, fmt.Errorf("minify %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(dst, out, 0644); err != nil {
		return Result{}, err
	}
	return Result{Src: src, Dst: dst, Before: len(data), After: len(out)}, nil
}

// BuildDist minifies every supported file under each of dirs into
// distDir, keeping relative paths. Unsupported files are skipped.
func BuildDist(m *minify.M, distDir string, dirs ...string) ([]Result, error) {
	var results []Result
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			mt, ok := MediaType(path)
			if !ok {
				return nil
			}
			r, err := MinifyFile(m, path, filepath.Join(distDir, path), mt)
			if err != nil {
				return err
			}
			results = append(results, r)
			return nil
		})
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
