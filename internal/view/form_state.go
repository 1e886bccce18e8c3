package view

import "errors"

// PendingAction es la acción del formulario que está en vuelo.
type PendingAction string

const (
	PendingNone   PendingAction = ""
	PendingSave   PendingAction = "save"
	PendingDelete PendingAction = "delete"
)

var ErrActionInFlight = errors.New("another action is already in flight")

// MessageFields son los campos editables del formulario.
type MessageFields struct {
	MessageText string `json:"messageText"`
}

// FormState compara las ediciones actuales contra el último snapshot guardado.
type FormState struct {
	Committed MessageFields
	Current   MessageFields
	Pending   PendingAction
}

func NewFormState(saved MessageFields) FormState {
	return FormState{Committed: saved, Current: saved}
}

// Diff devuelve los nombres de los campos que difieren del snapshot.
func (s FormState) Diff() []string {
	var changed []string
	if s.Current.MessageText != s.Committed.MessageText {
		changed = append(changed, "messageText")
	}
	return changed
}

func (s FormState) Dirty() bool {
	return len(s.Diff()) > 0
}

func (s FormState) CanSave() bool {
	return s.Dirty() && s.Pending == PendingNone
}

func (s FormState) CanDelete(persisted bool) bool {
	return persisted && s.Pending == PendingNone
}

func (s *FormState) Edit(fields MessageFields) {
	s.Current = fields
}

// Begin marca una acción en vuelo; Save y Delete se excluyen mutuamente.
func (s *FormState) Begin(action PendingAction) error {
	if s.Pending != PendingNone {
		return ErrActionInFlight
	}
	s.Pending = action
	return nil
}

// Commit promueve Current a Committed y libera la acción en vuelo.
func (s *FormState) Commit() {
	s.Committed = s.Current
	s.Pending = PendingNone
}

// Abort libera la acción en vuelo sin tocar el snapshot.
func (s *FormState) Abort() {
	s.Pending = PendingNone
}
