package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st    store.Store
	alice types.User
	bob   types.User
	notes map[string]types.Note
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "mcp.db"), store.WithClock(tick))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	f := fixture{st: st, notes: map[string]types.Note{}}
	f.alice = types.User{Username: "Alice", LoginID: "alice", Password: "x"}
	require.NoError(t, st.CreateUser(ctx, &f.alice))
	f.bob = types.User{Username: "Bob", LoginID: "bob", Password: "x"}
	require.NoError(t, st.CreateUser(ctx, &f.bob))

	for _, n := range []types.Note{
		{UserID: f.alice.ID, Title: "Limits", Subject: "Calculus", Content: "epsilon delta"},
		{UserID: f.bob.ID, Title: "Cells", Subject: "Biology", Content: "mitochondria"},
		{UserID: f.alice.ID, Title: "Derivatives", Subject: "Calculus", Content: "chain rule"},
	} {
		require.NoError(t, st.InsertNote(ctx, &n))
		f.notes[n.Title] = n
	}
	return f
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text, res.IsError
}

func decodeNotes(t *testing.T, text string) []NoteResult {
	t.Helper()
	var ret []NoteResult
	require.NoError(t, json.Unmarshal([]byte(text), &ret))
	return ret
}

func titles(list []NoteResult) []string {
	ret := make([]string, len(list))
	for i, n := range list {
		ret[i] = n.Title
	}
	return ret
}

func TestNewServer(t *testing.T) {
	f := newFixture(t)
	s := NewServer(f.st)
	tools := s.ListTools()
	for _, name := range []string{"list_subjects", "list_notes", "search_notes", "get_note"} {
		assert.Contains(t, tools, name)
	}
}

func TestListSubjects(t *testing.T) {
	f := newFixture(t)
	text, isErr := call(t, handleListSubjects(f.st), nil)
	require.False(t, isErr)

	var subjects []string
	require.NoError(t, json.Unmarshal([]byte(text), &subjects))
	assert.Equal(t, []string{"Calculus", "Biology"}, subjects)
}

func TestListNotes(t *testing.T) {
	f := newFixture(t)
	h := handleListNotes(f.st)

	t.Run("AllNewestFirst", func(t *testing.T) {
		text, isErr := call(t, h, nil)
		require.False(t, isErr)
		assert.Equal(t, []string{"Derivatives", "Cells", "Limits"}, titles(decodeNotes(t, text)))
	})

	t.Run("OwnerOldestFirst", func(t *testing.T) {
		text, isErr := call(t, h, map[string]any{"owner": "alice", "sort": "oldest"})
		require.False(t, isErr)
		got := decodeNotes(t, text)
		assert.Equal(t, []string{"Limits", "Derivatives"}, titles(got))
		assert.Equal(t, "Alice", got[0].Owner)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		_, isErr := call(t, h, map[string]any{"owner": "nobody"})
		assert.True(t, isErr)
	})
}

func TestSearchNotes(t *testing.T) {
	f := newFixture(t)
	h := handleSearchNotes(f.st)

	t.Run("MatchesAnyField", func(t *testing.T) {
		text, isErr := call(t, h, map[string]any{"query": "CALC"})
		require.False(t, isErr)
		assert.Equal(t, []string{"Derivatives", "Limits"}, titles(decodeNotes(t, text)))
	})

	t.Run("WithSubject", func(t *testing.T) {
		text, isErr := call(t, h, map[string]any{"query": "i", "subject": "Biology"})
		require.False(t, isErr)
		assert.Equal(t, []string{"Cells"}, titles(decodeNotes(t, text)))
	})

	t.Run("QueryRequired", func(t *testing.T) {
		text, isErr := call(t, h, nil)
		assert.True(t, isErr)
		assert.Equal(t, "query is required", text)
	})
}

func TestGetNote(t *testing.T) {
	f := newFixture(t)
	h := handleGetNote(f.st)

	text, isErr := call(t, h, map[string]any{"id": f.notes["Cells"].ID})
	require.False(t, isErr)
	var got NoteResult
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "mitochondria", got.Content)
	assert.Equal(t, "Bob", got.Owner)
	assert.False(t, got.Edited)

	_, isErr = call(t, h, map[string]any{"id": "missing"})
	assert.True(t, isErr)
}
