package notes

import (
	"fmt"
	"testing"
	"time"

	"github.com/oliverisaac/notehub/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func sampleNotes() []types.Note {
	return []types.Note{
		{ID: "a", Title: "Calc Notes", Subject: "Math", Content: "limits and derivatives", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Title: "Rome", Subject: "History", Content: "The republic fell", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "c", Title: "Linear algebra", Subject: "Math", Content: "Matrices", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Title: "Essay plan", Subject: "English", Content: "Calculated arguments", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(list []types.Note) []string {
	ret := make([]string, len(list))
	for i, n := range list {
		ret[i] = n.ID
	}
	return ret
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNewest, ParseSort(""))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
	assert.Equal(t, SortOldest, ParseSort(" Oldest "))
	assert.Equal(t, SortOldest, SortNewest.Toggle())
	assert.Equal(t, SortNewest, SortOldest.Toggle())
}

func TestSearch(t *testing.T) {
	t.Run("CaseInsensitiveAcrossFields", func(t *testing.T) {
		assert.Equal(t, []string{"a", "d"}, ids(Search(sampleNotes(), "CALC")))
		assert.Equal(t, []string{"b"}, ids(Search(sampleNotes(), "history")))
		assert.Equal(t, []string{"c"}, ids(Search(sampleNotes(), "matrices")))
	})

	t.Run("EmptyTermMatchesAll", func(t *testing.T) {
		assert.Len(t, Search(sampleNotes(), ""), 4)
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, Search(sampleNotes(), "zoology"))
	})
}

func TestFilterSubject(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, ids(FilterSubject(sampleNotes(), "Math")))
	assert.Len(t, FilterSubject(sampleNotes(), AllSubjects), 4)
	assert.Len(t, FilterSubject(sampleNotes(), ""), 4)
	// Exact match only.
	assert.Empty(t, FilterSubject(sampleNotes(), "math"))
}

func TestSortByCreated(t *testing.T) {
	list := sampleNotes()
	newest := SortByCreated(list, SortNewest)
	oldest := SortByCreated(list, SortOldest)

	assert.Equal(t, []string{"a", "d", "c", "b"}, ids(newest))
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(oldest))

	t.Run("ToggleReversesExactly", func(t *testing.T) {
		rev := make([]string, len(newest))
		for i, n := range newest {
			rev[len(newest)-1-i] = n.ID
		}
		assert.Equal(t, rev, ids(oldest))
	})

	t.Run("DoubleToggleRestores", func(t *testing.T) {
		s := SortNewest
		again := SortByCreated(SortByCreated(list, s.Toggle()), s.Toggle().Toggle())
		assert.Equal(t, ids(newest), ids(again))
	})

	t.Run("InputUntouched", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c", "d"}, ids(list))
	})
}

func TestApply_SearchAndSubjectCommute(t *testing.T) {
	list := sampleNotes()
	for _, term := range []string{"", "calc", "a", "the", "nothing"} {
		for _, subject := range []string{"", AllSubjects, "Math", "History", "English", "Art"} {
			t.Run(fmt.Sprintf("%q/%q", term, subject), func(t *testing.T) {
				first := FilterSubject(Search(list, term), subject)
				second := Search(FilterSubject(list, subject), term)
				assert.ElementsMatch(t, ids(first), ids(second))
			})
		}
	}
}

func TestApply(t *testing.T) {
	t.Run("SearchFindsNote", func(t *testing.T) {
		got := Apply(sampleNotes(), Query{Search: "calc notes"})
		require.Len(t, got, 1)
		assert.Equal(t, "Calc Notes", got[0].Title)
	})

	t.Run("SubjectExcludes", func(t *testing.T) {
		assert.Empty(t, Apply(sampleNotes(), Query{Search: "calc", Subject: "History"}))
	})

	t.Run("Ordering", func(t *testing.T) {
		got := Apply(sampleNotes(), Query{Subject: "Math", Sort: SortOldest})
		assert.Equal(t, []string{"c", "a"}, ids(got))
	})

	t.Run("Deterministic", func(t *testing.T) {
		q := Query{Search: "a", Sort: SortNewest}
		assert.Equal(t, ids(Apply(sampleNotes(), q)), ids(Apply(sampleNotes(), q)))
	})
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, []string{"Math", "History", "English"}, Subjects(sampleNotes()))
	assert.Empty(t, Subjects(nil))
}

func TestMarkOwned(t *testing.T) {
	list := []types.Note{{ID: "a", UserID: "u1"}, {ID: "b", UserID: "u2"}}
	MarkOwned(list, &types.User{ID: "u1"})
	assert.True(t, list[0].IsUserNote)
	assert.False(t, list[1].IsUserNote)
}
