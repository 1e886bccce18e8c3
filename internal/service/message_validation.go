package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newMessageValidator()

// MessageInput es el payload editable de un mensaje tal como llega del formulario.
type MessageInput struct {
	MessageText string `form:"messageText" json:"messageText" validate:"required"`
}

// FieldErrors asocia el nombre de campo del formulario con su mensaje de error.
type FieldErrors map[string]string

var fieldMessages = map[string]map[string]string{
	"messageText": {
		"required": "Message text is required",
	},
}

func newMessageValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func NormalizeMessageInput(input MessageInput) MessageInput {
	input.MessageText = strings.TrimSpace(input.MessageText)
	return input
}

// ValidateMessage devuelve nil si el input es válido.
func ValidateMessage(input MessageInput) FieldErrors {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[fe.Field()] = msg
	}
	return out
}
