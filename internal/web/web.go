// Package web bundles the HTML templates and fixed documents served by the site.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed verification/*
var verificationFS embed.FS

// UploadsPath is the URL prefix stored attachments are served under.
const UploadsPath = "/static/uploads"

// ErrNoDocument is returned when a verification document is not bundled.
var ErrNoDocument = errors.New("verification document not found")

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"uploadURL": func(name *string) string {
			if name == nil || *name == "" {
				return ""
			}
			return UploadsPath + "/" + *name
		},
		"scoreOf": func(scores map[string]float64, courseID string) string {
			score, ok := scores[courseID]
			if !ok {
				return "-"
			}
			return strconv.FormatFloat(score, 'f', -1, 64)
		},
	}
}

// Templates parses the embedded page templates. Each page is addressed by its file name.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// VerificationDocument returns the bundled ownership-verification file with the given name.
func VerificationDocument(name string) ([]byte, error) {
	if name == "" || name != path.Base(name) {
		return nil, ErrNoDocument
	}
	data, err := fs.ReadFile(verificationFS, "verification/"+name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("read verification document: %w", err)
	}
	return data, nil
}
