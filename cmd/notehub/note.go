package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/auth"
	"github.com/oliverisaac/notehub/notes"
	"github.com/oliverisaac/notehub/store"
	"github.com/oliverisaac/notehub/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	notesPath = "/notes"

	editDenied   = "You can only edit your own notes."
	deleteDenied = "You can only delete your own notes."
)

func notePath(id string) string {
	return notesPath + "/" + id
}

func notesPageHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		q := notes.Query{
			Search:  c.QueryParam("q"),
			Subject: c.QueryParam("subject"),
			Sort:    notes.ParseSort(c.QueryParam("sort")),
		}
		if q.Subject == "" {
			q.Subject = notes.AllSubjects
		}
		pageData := types.NotesPageData{
			PageData: newPageData(c, "All Notes"),
			Search:   q.Search,
			Subject:  q.Subject,
			Sort:     string(q.Sort),
		}

		allNotes, err := st.ListNotes(c.Request().Context(), store.NoteFilter{OrderBy: store.OrderByCreated})
		if err != nil {
			err = errors.Wrap(err, "listing all notes")
			logrus.Error(err)
			pageData.WithError(err)
		}

		pageData.Total = len(allNotes)
		pageData.Subjects = notes.Subjects(allNotes)
		pageData.Notes = notes.MarkOwned(notes.Apply(allNotes, q), &user)

		return c.Render(200, "notes", pageData)
	}
}

func noteLoadError(c echo.Context, err error, fallback string) error {
	if !errors.Is(err, types.ErrNoteNotFound) {
		logrus.Error(err)
	}
	return redirectWithError(c, fallback, "Error", "Could not load note.")
}

func notePageHandler(st store.Store, md *notes.Renderer) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		note, err := st.NoteByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return noteLoadError(c, err, notesPath)
		}

		return c.Render(200, "note", types.NotePageData{
			PageData: newPageData(c, note.Title),
			Note:     note,
			IsOwner:  note.OwnedBy(&user),
			Body:     md.Render(note.Content),
		})
	}
}

// loadOwnedNote fetches the note behind :id for a mutating page. On failure
// it has already queued a notification and written the redirect.
func loadOwnedNote(c echo.Context, st store.Store, deniedTo, deniedMessage string) (types.Note, bool, error) {
	user, _ := auth.GetSessionUser(c)
	note, err := st.NoteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return types.Note{}, false, noteLoadError(c, err, auth.DashboardPath)
	}
	if !note.OwnedBy(&user) {
		logrus.Warnf("User %s tried to modify note %s owned by %s", user.ID, note.ID, note.UserID)
		return types.Note{}, false, redirectWithError(c, deniedTo, "Access Denied", deniedMessage)
	}
	return note, true, nil
}

func noteForm(c echo.Context, noteID string, form types.FormData) types.NoteFormPageData {
	title := "Create Note"
	if noteID != "" {
		title = "Edit Note"
	}
	return types.NoteFormPageData{
		FormPageData: types.FormPageData{PageData: newPageData(c, title), Form: form},
		NoteID:       noteID,
	}
}

func noteInput(c echo.Context) notes.Input {
	return notes.Input{
		Title:   c.FormValue("title"),
		Subject: c.FormValue("subject"),
		Content: c.FormValue("content"),
	}
}

func invalidNoteForm(c echo.Context, noteID string, in notes.Input, err error) error {
	form := types.NewFormData()
	form.Values = in.Values()
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			form.Errors[field] = msg
		}
	}
	form.Errors["general"] = "Please fill in all fields."
	return c.Render(http.StatusUnprocessableEntity, "note_form", noteForm(c, noteID, form))
}

func failedNoteForm(c echo.Context, noteID string, in notes.Input, message string) error {
	form := types.NewFormData()
	form.Values = in.Values()
	form.Errors["general"] = message
	return c.Render(http.StatusInternalServerError, "note_form", noteForm(c, noteID, form))
}

func newNotePage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(200, "note_form", noteForm(c, "", types.NewFormData()))
	}
}

func createNote(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		in := noteInput(c)
		if err := in.Validate(); err != nil {
			return invalidNoteForm(c, "", in, err)
		}

		norm := in.Normalize()
		note := types.Note{
			UserID:  user.ID,
			Title:   norm.Title,
			Subject: norm.Subject,
			Content: norm.Content,
		}
		if err := st.InsertNote(c.Request().Context(), &note); err != nil {
			if errors.Is(err, types.ErrValidation) {
				return invalidNoteForm(c, "", in, err)
			}
			logrus.Error(errors.Wrap(err, "Saving note to db"))
			return failedNoteForm(c, "", in, "Could not create note.")
		}

		flashSuccess(c, "Note created", "Your note has been created successfully.")
		return c.Redirect(http.StatusFound, notePath(note.ID))
	}
}

func editNotePage(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		note, ok, err := loadOwnedNote(c, st, auth.DashboardPath, editDenied)
		if !ok {
			return err
		}
		form := types.NewFormData()
		form.Values = notes.InputFromNote(note).Values()
		return c.Render(200, "note_form", noteForm(c, note.ID, form))
	}
}

func updateNote(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		note, ok, err := loadOwnedNote(c, st, auth.DashboardPath, editDenied)
		if !ok {
			return err
		}

		in := noteInput(c)
		if err := in.Validate(); err != nil {
			return invalidNoteForm(c, note.ID, in, err)
		}

		_, err = st.UpdateNote(c.Request().Context(), user.ID, note.ID, store.UpdateFromInput(in))
		switch {
		case err == nil:
		case errors.Is(err, types.ErrAccessDenied):
			return redirectWithError(c, auth.DashboardPath, "Access Denied", editDenied)
		case errors.Is(err, types.ErrNoteNotFound):
			return redirectWithError(c, auth.DashboardPath, "Error", "Could not load note.")
		case errors.Is(err, types.ErrValidation):
			return invalidNoteForm(c, note.ID, in, err)
		default:
			logrus.Error(errors.Wrapf(err, "updating note %s", note.ID))
			return failedNoteForm(c, note.ID, in, "Could not update note.")
		}

		flashSuccess(c, "Note updated", "Your note has been updated successfully.")
		return c.Redirect(http.StatusFound, notePath(note.ID))
	}
}

func deleteNotePage(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		note, ok, err := loadOwnedNote(c, st, notePath(c.Param("id")), deleteDenied)
		if !ok {
			return err
		}
		return c.Render(200, "note_delete", types.NotePageData{
			PageData: newPageData(c, "Delete "+note.Title),
			Note:     note,
			IsOwner:  true,
		})
	}
}

func deleteNote(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := auth.GetSessionUser(c)
		id := c.Param("id")

		err := st.DeleteNote(c.Request().Context(), user.ID, id)
		switch {
		case err == nil:
		case errors.Is(err, types.ErrAccessDenied):
			logrus.Warnf("User %s tried to delete note %s", user.ID, id)
			return redirectWithError(c, notePath(id), "Access Denied", deleteDenied)
		case errors.Is(err, types.ErrNoteNotFound):
			return redirectWithError(c, notesPath, "Error", "Could not load note.")
		default:
			logrus.Error(errors.Wrapf(err, "deleting note %s", id))
			return redirectWithError(c, notePath(id), "Error", "Could not delete note.")
		}

		flashSuccess(c, "Note deleted", "Your note has been deleted successfully.")
		return c.Redirect(http.StatusFound, auth.DashboardPath)
	}
}
