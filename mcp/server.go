// Package mcp exposes read-only note browsing over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/oliverisaac/notehub/notes"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
)

// NewServer registers the note tools against st.
func NewServer(st store.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"NoteHub",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("list_subjects",
			mcp.WithDescription("List every subject used by at least one note, in the order they first appear among the newest notes."),
		),
		handleListSubjects(st),
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes, optionally only those owned by one user."),
			mcp.WithString("owner",
				mcp.Description("Optional: login id of the note owner"),
			),
			mcp.WithString("sort",
				mcp.Description("Creation order: 'newest' (default) or 'oldest'"),
			),
		),
		handleListNotes(st),
	)

	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Case-insensitive search over note titles, subjects and content."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search term"),
			),
			mcp.WithString("subject",
				mcp.Description("Optional: only notes with exactly this subject"),
			),
			mcp.WithString("sort",
				mcp.Description("Creation order: 'newest' (default) or 'oldest'"),
			),
		),
		handleSearchNotes(st),
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get one note with its full content."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note id"),
			),
		),
		handleGetNote(st),
	)

	return s
}

// NoteResult is a note as returned by the tools.
type NoteResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResult(n types.Note) NoteResult {
	return NoteResult{
		ID:        n.ID,
		Title:     n.Title,
		Subject:   n.Subject,
		Content:   n.Content,
		Owner:     n.OwnerName(),
		Edited:    n.WasEdited(),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toResults(list []types.Note) []NoteResult {
	ret := make([]NoteResult, len(list))
	for i, n := range list {
		ret[i] = toResult(n)
	}
	return ret
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

func allNotes(ctx context.Context, st store.Store, ownerID string) ([]types.Note, error) {
	return st.ListNotes(ctx, store.NoteFilter{OwnerID: ownerID, OrderBy: store.OrderByCreated})
}

func handleListSubjects(st store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := allNotes(ctx, st, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list subjects: %v", err)), nil
		}
		return jsonResult(notes.Subjects(list))
	}
}

func handleListNotes(st store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ownerID := ""
		if login := req.GetString("owner", ""); login != "" {
			owner, err := st.UserByLoginID(ctx, login)
			if errors.Is(err, types.ErrUserNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("no user with login id %q", login)), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to look up owner: %v", err)), nil
			}
			ownerID = owner.ID
		}

		list, err := allNotes(ctx, st, ownerID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}
		sorted := notes.SortByCreated(list, notes.ParseSort(req.GetString("sort", "")))
		return jsonResult(toResults(sorted))
	}
}

func handleSearchNotes(st store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		list, err := allNotes(ctx, st, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search notes: %v", err)), nil
		}
		found := notes.Apply(list, notes.Query{
			Search:  query,
			Subject: req.GetString("subject", ""),
			Sort:    notes.ParseSort(req.GetString("sort", "")),
		})
		return jsonResult(toResults(found))
	}
}

func handleGetNote(st store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := st.NoteByID(ctx, id)
		if errors.Is(err, types.ErrNoteNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("note %q not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
		}
		return jsonResult(toResult(note))
	}
}
