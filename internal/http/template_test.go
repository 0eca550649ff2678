package http

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func TestHomeTemplate(t *testing.T) {
	tmpl, err := template.New("").ParseGlob("../../templates/*.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "home", map[string]any{
		"Title":   "Bibliothèque | Accueil",
		"Styles":  []string{"/static/css/home.css"},
		"Scripts": []string{"/static/js/home.js"},
		"Books": []entities.BookSummary{
			{ISBN: "978-2070518425", Title: "Harry Potter à l'école des sorciers"},
			{ISBN: "<x>", Title: "Escaped"},
		},
		"DemoMode": true,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<option value="978-2070518425">(978-2070518425) - Harry Potter à l&#39;école des sorciers</option>`)
	assert.Contains(t, html, `href="/static/css/home.css"`)
	assert.Contains(t, html, `src="/static/js/home.js"`)
	assert.Contains(t, html, `id="form-books"`)
	assert.Contains(t, html, "demo-banner")
	assert.NotContains(t, html, "<x>")
}
