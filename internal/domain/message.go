package domain

import (
	"strings"
	"time"
)

// Message es el único registro administrado por el panel.
type Message struct {
	ID          int64     `json:"id"`
	MessageText string    `json:"messageText"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageDraft contiene los datos de un mensaje todavía no persistido.
type MessageDraft struct {
	MessageText string `json:"messageText"`
}

// MessagePatch describe un update parcial; un campo nil no se modifica.
type MessagePatch struct {
	MessageText *string `json:"messageText,omitempty"`
}

// IsEmpty indica si el patch no trae ningún campo.
func (p MessagePatch) IsEmpty() bool {
	return p.MessageText == nil
}

// Normalize recorta espacios en los campos presentes.
func (p MessagePatch) Normalize() MessagePatch {
	if p.MessageText != nil {
		text := strings.TrimSpace(*p.MessageText)
		p.MessageText = &text
	}
	return p
}

// Apply devuelve una copia del mensaje con el patch aplicado.
func (p MessagePatch) Apply(m Message) Message {
	if p.MessageText != nil {
		m.MessageText = *p.MessageText
	}
	return m
}
