package email

import (
	"errors"
	"fmt"
	"strings"
)

// CommandPrefix marca un mensaje como borrador de correo en vez de pregunta.
const CommandPrefix = "email:"

var (
	ErrDraftFormat     = errors.New("email draft: missing subject/body separator")
	ErrDraftIncomplete = errors.New("email draft: subject and body are required")
)

// Draft es un correo redactado localmente; nunca se envía.
type Draft struct {
	Subject string
	Body    string
}

// IsCommand indica si text empieza con el prefijo email: (sin distinguir mayúsculas).
func IsCommand(text string) bool {
	return len(text) >= len(CommandPrefix) && strings.EqualFold(text[:len(CommandPrefix)], CommandPrefix)
}

// ParseDraftCommand separa "email: asunto | cuerpo" en el primer '|'.
// El bool es false cuando text no es un comando de correo.
func ParseDraftCommand(text string) (Draft, bool, error) {
	if !IsCommand(text) {
		return Draft{}, false, nil
	}

	rest := strings.TrimSpace(text[len(CommandPrefix):])
	parts := strings.SplitN(rest, "|", 2)
	if len(parts) != 2 {
		return Draft{}, true, ErrDraftFormat
	}

	draft := Draft{
		Subject: strings.TrimSpace(parts[0]),
		Body:    strings.TrimSpace(parts[1]),
	}
	if draft.Subject == "" || draft.Body == "" {
		return Draft{}, true, ErrDraftIncomplete
	}
	return draft, true, nil
}

// Confirmation arma el texto que el widget muestra tras redactar el borrador.
func (d Draft) Confirmation(recipient string) string {
	if strings.TrimSpace(recipient) == "" {
		recipient = "the site owner"
	}
	return fmt.Sprintf(
		"Email drafted successfully!\n\n📧 Subject: %s\n\n📝 Body: %s\n\nThe email has been formatted and is ready to send to %s.",
		d.Subject,
		d.Body,
		recipient,
	)
}
