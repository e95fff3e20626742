package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	assert.Equal(t, "<p><strong>bold</strong></p>\n", r.Render("**bold**"))
	assert.Contains(t, r.Render("~~gone~~"), "<del>gone</del>")
	assert.Contains(t, r.Render("| a |\n|---|\n| 1 |"), "<table>")
	assert.NotContains(t, r.Render("<script>alert(1)</script>"), "<script>")
	assert.Equal(t, "", r.Render(""))

	// inline tags are dropped, the text between them survives
	inline := r.Render("say <b>hi</b> <img src=x onerror=alert(1)>")
	assert.Equal(t, "<p>say <!-- raw HTML omitted -->hi<!-- raw HTML omitted --> <!-- raw HTML omitted --></p>\n", inline)
	assert.NotContains(t, inline, "onerror")

	block := r.Render("<div onclick=\"x()\">block</div>")
	assert.Contains(t, block, "<!-- raw HTML omitted -->")
	assert.NotContains(t, block, "onclick")
	assert.NotContains(t, r.Render("[x](javascript:alert(1))"), "javascript:")
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()

	assert.NoError(t, Authorize(owner, owner, "post"))
	assert.True(t, errs.IsNotAuthenticated(Authorize(uuid.Nil, owner, "post")))

	err := Authorize(uuid.New(), owner, "comment")
	assert.True(t, errs.IsNotOwner(err))
	assert.Contains(t, err.Error(), "comment")
}
