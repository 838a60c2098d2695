package notes

import (
	"errors"
	"strings"
	"testing"

	"github.com/oliverisaac/notehub/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, Input{Title: "Calc Notes", Subject: "Math", Content: "..."}.Validate())
	})

	t.Run("AllMissing", func(t *testing.T) {
		err := Input{Title: " ", Subject: "", Content: "\n"}.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrValidation))

		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 3)
	})

	t.Run("TooLong", func(t *testing.T) {
		err := Input{Title: strings.Repeat("x", MaxTitleLength+1), Subject: "Math", Content: "c"}.Validate()
		var verr *types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Title is too long", verr.Fields["title"])
	})

	t.Run("LengthCountsCharacters", func(t *testing.T) {
		in := Input{
			Title:   strings.Repeat("数", MaxTitleLength),
			Subject: strings.Repeat("学", MaxSubjectLength),
			Content: "c",
		}
		assert.NoError(t, in.Validate())

		in.Subject += "学"
		var verr *types.ValidationError
		require.True(t, errors.As(in.Validate(), &verr))
		assert.Equal(t, "Subject is too long", verr.Fields["subject"])
		assert.NotContains(t, verr.Fields, "title")
	})
}

func TestInput_Normalize(t *testing.T) {
	in := Input{Title: "  Calc ", Subject: "Math\t", Content: " body "}.Normalize()
	assert.Equal(t, Input{Title: "Calc", Subject: "Math", Content: "body"}, in)
	assert.Equal(t, "Calc", in.Values()["title"])
}
