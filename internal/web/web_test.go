package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-site/internal/models"
)

func TestTemplatesParseEveryPage(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	pages := []string{
		"home.html", "teaching.html", "news.html", "about.html", "class.html", "contact.html",
		"register.html", "login.html", "password.html", "dashboard.html",
		"admin_news_new.html", "admin_users.html", "lessons.html", "lesson.html",
	}
	for _, name := range pages {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
	assert.NotNil(t, tpl.Lookup("header"))
	assert.NotNil(t, tpl.Lookup("footer"))
}

func TestHomeRendersNavigationForAnonymousVisitor(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, "home.html", map[string]interface{}{"Title": "Home", "Identity": models.Identity{}}))
	assert.Contains(t, buf.String(), `href="/login"`)
	assert.NotContains(t, buf.String(), `href="/logout"`)
}

func TestFuncMapHelpers(t *testing.T) {
	funcs := FuncMap()
	name := "a.png"

	assert.Equal(t, "/static/uploads/a.png", funcs["uploadURL"].(func(*string) string)(&name))
	assert.Equal(t, "", funcs["uploadURL"].(func(*string) string)(nil))
	assert.Equal(t, "2024-03-01", funcs["date"].(func(time.Time) string)(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	scoreOf := funcs["scoreOf"].(func(map[string]float64, string) string)
	assert.Equal(t, "87.5", scoreOf(map[string]float64{"m1": 87.5}, "m1"))
	assert.Equal(t, "-", scoreOf(map[string]float64{}, "m1"))
}

func TestVerificationDocument(t *testing.T) {
	data, err := VerificationDocument("google77b51b745d5d14fa.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "google-site-verification")

	_, err = VerificationDocument("../web.go")
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = VerificationDocument("missing.html")
	assert.ErrorIs(t, err, ErrNoDocument)
}
