package types

import (
	errs "errors"
	"html/template"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Title   string
	Message string
}

// PageData is shared by every page rendered inside the layout.
type PageData struct {
	Title   string
	User    *User
	Theme   string
	Flashes []Flash
	Err     error
	// CSRF is echoed back by every POST form.
	CSRF string
}

func (d *PageData) WithError(err error) *PageData {
	d.Err = errs.Join(d.Err, err)
	return d
}

func (d *PageData) WithUser(u User) *PageData {
	d.User = &u
	return d
}

func (d *PageData) WithFlash(f Flash) *PageData {
	d.Flashes = append(d.Flashes, f)
	return d
}

func (d PageData) SignedIn() bool {
	return d.User != nil && d.User.IsSet()
}

func (d PageData) DarkTheme() bool {
	return d.Theme == "dark"
}

type DashboardPageData struct {
	PageData
	Notes []Note
}

type NotesPageData struct {
	PageData
	Notes    []Note
	Subjects []string
	Search   string
	Subject  string
	Sort     string
	Total    int
}

type NotePageData struct {
	PageData
	Note    Note
	IsOwner bool
	Body    template.HTML
}

type FormData struct {
	Errors map[string]string
	Values map[string]string
}

func NewFormData() FormData {
	return FormData{
		Errors: map[string]string{},
		Values: map[string]string{},
	}
}

type FormPageData struct {
	PageData
	Form FormData
}

type NoteFormPageData struct {
	FormPageData
	NoteID string
}

func (d NoteFormPageData) EditMode() bool {
	return d.NoteID != ""
}
