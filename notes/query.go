// Package notes holds the note rules that do not depend on storage: input
// validation, the derived list view (search, subject filter, sort) and
// markdown rendering.
package notes

import (
	"sort"
	"strings"

	"github.com/oliverisaac/notehub/types"
)

type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"

	AllSubjects = "all"
)

func ParseSort(s string) Sort {
	if Sort(strings.ToLower(strings.TrimSpace(s))) == SortOldest {
		return SortOldest
	}
	return SortNewest
}

// Toggle returns the opposite direction.
func (s Sort) Toggle() Sort {
	if s == SortOldest {
		return SortNewest
	}
	return SortOldest
}

// Query describes the browser's derived view. An empty Subject or
// AllSubjects disables subject filtering.
type Query struct {
	Search  string
	Subject string
	Sort    Sort
}

func (q Query) subjectFilter() string {
	if q.Subject == AllSubjects {
		return ""
	}
	return q.Subject
}

// Apply filters and orders list without modifying it.
func Apply(list []types.Note, q Query) []types.Note {
	ret := Search(list, q.Search)
	ret = FilterSubject(ret, q.subjectFilter())
	return SortByCreated(ret, q.Sort)
}

func MatchesSearch(n types.Note, term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Subject), term) ||
		strings.Contains(strings.ToLower(n.Content), term)
}

func Search(list []types.Note, term string) []types.Note {
	ret := make([]types.Note, 0, len(list))
	for _, n := range list {
		if MatchesSearch(n, term) {
			ret = append(ret, n)
		}
	}
	return ret
}

func FilterSubject(list []types.Note, subject string) []types.Note {
	ret := make([]types.Note, 0, len(list))
	for _, n := range list {
		if subject == "" || subject == AllSubjects || n.Subject == subject {
			ret = append(ret, n)
		}
	}
	return ret
}

// SortByCreated orders by created_at, breaking ties on id so that the two
// directions are exact reverses of each other.
func SortByCreated(list []types.Note, s Sort) []types.Note {
	ret := make([]types.Note, len(list))
	copy(ret, list)
	sort.SliceStable(ret, func(i, j int) bool {
		if s == SortOldest {
			return createdBefore(ret[i], ret[j])
		}
		return createdBefore(ret[j], ret[i])
	})
	return ret
}

func createdBefore(a, b types.Note) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Subjects lists the distinct subjects of list in first-seen order.
func Subjects(list []types.Note) []string {
	seen := map[string]bool{}
	ret := []string{}
	for _, n := range list {
		if seen[n.Subject] {
			continue
		}
		seen[n.Subject] = true
		ret = append(ret, n.Subject)
	}
	return ret
}

// MarkOwned sets IsUserNote on every note owned by u.
func MarkOwned(list []types.Note, u *types.User) []types.Note {
	for i, n := range list {
		n.IsUserNote = n.OwnedBy(u)
		list[i] = n
	}
	return list
}
