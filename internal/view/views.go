// Package view arma los view-models del panel y carga los templates HTML.
// Los builders son funciones puras; no dependen de HTTP ni del store.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/samber/lo"

	"message-admin/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	ListPath       = "/app/messages"
	NewMessagePath = "/app/messages/new"
	titleMaxRunes  = 25
	dateLayout     = "Mon Jan 02 2006"
)

// Templates parsea los templates embebidos.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type ListRow struct {
	ID        int64
	Title     string
	CreatedAt string
	EditURL   string
	DeleteURL string
}

type ListView struct {
	Title     string
	CreateURL string
	Empty     bool
	Rows      []ListRow
	Token     string
}

// NewListView respeta el orden en que llegan los mensajes.
func NewListView(messages []domain.Message, token string) ListView {
	rows := lo.Map(messages, func(m domain.Message, _ int) ListRow {
		return ListRow{
			ID:        m.ID,
			Title:     Truncate(m.MessageText, titleMaxRunes),
			CreatedAt: m.CreatedAt.Format(dateLayout),
			EditURL:   WithToken(MessagePath(m.ID), token),
			DeleteURL: WithToken(fmt.Sprintf("/messages/%d", m.ID), token),
		}
	})
	return ListView{
		Title:     "Messages",
		CreateURL: WithToken(NewMessagePath, token),
		Empty:     len(rows) == 0,
		Rows:      rows,
		Token:     token,
	}
}

type FormView struct {
	Title     string
	Persisted bool
	ID        int64
	State     FormState
	Errors    map[string]string
	ActionURL string
	BackURL   string
	Token     string
}

// NewFormView arma el formulario para un mensaje guardado o, si persisted es false, un draft.
func NewFormView(saved domain.Message, persisted bool, token string) FormView {
	v := FormView{
		Title:     "Create New Message",
		Persisted: persisted,
		State:     NewFormState(MessageFields{MessageText: saved.MessageText}),
		ActionURL: NewMessagePath,
		BackURL:   WithToken(ListPath, token),
		Token:     token,
	}
	if persisted {
		v.Title = "Edit Message"
		v.ID = saved.ID
		v.ActionURL = MessagePath(saved.ID)
	}
	return v
}

// WithSubmission aplica lo que envió el usuario y los errores de validación.
func (v FormView) WithSubmission(fields MessageFields, errs map[string]string) FormView {
	v.State.Edit(fields)
	v.Errors = errs
	return v
}

func (v FormView) SaveDisabled() bool {
	return !v.State.CanSave()
}

func (v FormView) DeleteDisabled() bool {
	return !v.State.CanDelete(v.Persisted)
}

type ErrorView struct {
	Status  int
	Title   string
	Message string
	BackURL string
}

func NewErrorView(status int, title, message, token string) ErrorView {
	return ErrorView{
		Status:  status,
		Title:   title,
		Message: message,
		BackURL: WithToken(ListPath, token),
	}
}

func MessagePath(id int64) string {
	return fmt.Sprintf("%s/%d", ListPath, id)
}

// WithToken agrega id_token para que la navegación dentro del iframe siga autenticada.
func WithToken(path, token string) string {
	if token == "" {
		return path
	}
	return path + "?" + url.Values{"id_token": {token}}.Encode()
}

// Truncate corta s a max runas y agrega "…".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
