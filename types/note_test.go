package types

import (
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNote_WasEdited(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := Note{CreatedAt: created, UpdatedAt: created}
	assert.False(t, n.WasEdited())

	n.UpdatedAt = created.Add(time.Second)
	assert.True(t, n.WasEdited())

	// Same instant in another zone is not an edit.
	n.UpdatedAt = created.In(time.FixedZone("UTC+2", 2*60*60))
	assert.False(t, n.WasEdited())
}

func TestNote_Ownership(t *testing.T) {
	n := Note{UserID: "u1", User: User{ID: "u1", Username: "Alice"}}
	assert.True(t, n.OwnedBy(&User{ID: "u1"}))
	assert.False(t, n.OwnedBy(&User{ID: "u2"}))
	assert.False(t, n.OwnedBy(nil))
	assert.Equal(t, "Alice", n.OwnerName())
	assert.Equal(t, UnknownOwner, Note{}.OwnerName())
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("title", "Title is required")
	verr.Add("title", "ignored")
	verr.Add("content", "Content is required")

	err := pkgerrors.Wrap(verr.OrNil(), "creating note")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrAccessDenied))

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "Title is required", target.Fields["title"])
	assert.Contains(t, err.Error(), "content, title")
}
