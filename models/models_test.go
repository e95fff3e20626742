package models

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeCreateAssignsTimeOrderedIDs(t *testing.T) {
	first := &Post{}
	second := &Post{}
	require.NoError(t, first.BeforeCreate(nil))
	require.NoError(t, second.BeforeCreate(nil))

	assert.Equal(t, uuid.Version(7), first.ID.Version())
	assert.Less(t, first.ID.String(), second.ID.String())

	user := &User{}
	require.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, GenderUndisclosed, user.Gender)

	fixed := uuid.New()
	comment := &Comment{ID: fixed}
	require.NoError(t, comment.BeforeCreate(nil))
	assert.Equal(t, fixed, comment.ID)
}

func TestGender(t *testing.T) {
	assert.True(t, GenderFemale.Valid())
	assert.False(t, Gender("q").Valid())
	assert.Equal(t, "male", GenderMale.Label())
	assert.Equal(t, "undisclosed", Gender("").Label())
}

func TestColumnMismatches(t *testing.T) {
	fields := getModelFields(Post{})
	assert.ElementsMatch(t, []string{"id", "author_id", "title", "content", "views", "created_at", "updated_at"}, fields)

	missing := findColumnMismatches([]string{"id", "title", "legacy_slug"}, fields)
	assert.Equal(t, []string{"legacy_slug"}, missing)
}

func TestWriteColumnMismatchReport(t *testing.T) {
	columns := map[string][]string{
		"users": getModelFields(User{}),
		"posts": append(getModelFields(Post{}), "legacy_slug", "legacy_tags"),
	}
	columnsOf := func(table string) ([]string, error) {
		if table == "comments" {
			return nil, errors.New("table comments does not exist")
		}
		return columns[table], nil
	}

	var out bytes.Buffer
	total := writeColumnMismatchReport(&out, columnsOf)

	assert.Equal(t, 2, total)
	report := out.String()
	assert.Contains(t, report, "--- Table: posts ---\nFound 2 columns not accounted for in model:\n  - legacy_slug\n  - legacy_tags\n")
	assert.Contains(t, report, "--- Table: users ---\nAll columns are accounted for in the model.\n")
	assert.Contains(t, report, "--- Table: comments ---\nTable does not exist yet")
	assert.Contains(t, report, "Total mismatched columns across all tables: 2\n")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Table: comments")), bytes.Index(out.Bytes(), []byte("Table: posts")))
}
