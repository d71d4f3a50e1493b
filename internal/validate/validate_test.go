package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

func TestStructBookInput(t *testing.T) {
	errs := validate.Struct(services.BookInput{Title: "T", Author: "A", Genre: "g"})
	assert.Nil(t, errs)

	errs = validate.Struct(services.BookInput{Title: "T"})
	require.Len(t, errs, 2)
	fields := []string{errs[0].Field, errs[1].Field}
	assert.Contains(t, fields, "author")
	assert.Contains(t, fields, "genre")
	assert.Equal(t, "is required", errs[0].Message)

	bad := "not-an-isbn"
	errs = validate.Struct(services.BookInput{Title: "T", Author: "A", Genre: "g", ISBN: &bad})
	require.Len(t, errs, 1)
	assert.Equal(t, "isbn", errs[0].Field)
	assert.Equal(t, "must be a valid ISBN", errs[0].Message)

	level := "impossible"
	errs = validate.Struct(services.BookInput{Title: "T", Author: "A", Genre: "g", DifficultyLevel: &level})
	require.Len(t, errs, 1)
	assert.Equal(t, "difficultyLevel", errs[0].Field)
	assert.Equal(t, "must be one of: easy medium hard", errs[0].Message)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	// Fields whose json name diverges from the Go name must render the
	// json name, not a lower-cased Go identifier.
	cover := "not a url"
	errs := validate.Struct(services.BookInput{Title: "T", Author: "A", Genre: "g", CoverURL: &cover})
	require.Len(t, errs, 1)
	assert.Equal(t, "bookCoverUrl", errs[0].Field)

	bad := "x"
	errs = validate.Struct(services.BookInput{Title: "T", Author: "A", Genre: "g", ISBN: &bad})
	require.Len(t, errs, 1)
	assert.Equal(t, "isbn", errs[0].Field)
}

func TestStructEntryInput(t *testing.T) {
	rating := 9
	errs := validate.Struct(services.EntryInput{Status: "reading", UserRating: &rating})
	require.Len(t, errs, 1)
	assert.Equal(t, "userRating", errs[0].Field)
	assert.Equal(t, "must be at most 5", errs[0].Message)

	errs = validate.Struct(services.EntryInput{Status: "paused"})
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestEntryNotesCap(t *testing.T) {
	long := strings.Repeat("x", 2500)
	notes := long
	assert.Nil(t, validate.Struct(services.EntryInput{Status: "reading", UserNotes: &notes}))

	over := strings.Repeat("x", 5001)
	errs := validate.Struct(services.EntryInput{UserNotes: &over})
	require.Len(t, errs, 1)
	assert.Equal(t, "userNotes", errs[0].Field)
	assert.Equal(t, "must be at most 5000", errs[0].Message)
}

func TestPagination(t *testing.T) {
	page, limit := validate.Pagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = validate.Pagination("3", "25")
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	page, limit = validate.Pagination("-2", "0")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	_, limit = validate.Pagination("1", "5000")
	assert.Equal(t, 100, limit, "limit is capped")

	page, limit = validate.Pagination("abc", "xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}
