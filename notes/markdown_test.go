package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	t.Run("Markdown", func(t *testing.T) {
		out := string(r.Render("# Limits\n\n**epsilon** delta"))
		assert.Contains(t, out, "<h1>Limits</h1>")
		assert.Contains(t, out, "<strong>epsilon</strong>")
	})

	t.Run("RawHTMLDropped", func(t *testing.T) {
		out := string(r.Render("<script>alert(1)</script>"))
		assert.NotContains(t, out, "<script>")
	})

	t.Run("HardWraps", func(t *testing.T) {
		out := string(r.Render("line one\nline two"))
		assert.Contains(t, out, "<br>")
	})
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "héllo…", Excerpt("héllo world", 5))
}
