package gateway

import (
	"errors"

	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
)

// Failure envuelve un error del almacenamiento con el texto que ve el usuario.
// El detalle (Err) solo va al log.
type Failure struct {
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Op + ": failure"
	}
	return f.Op + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

const genericMessage = "❌ No se pudo completar la operación. Intenta de nuevo más tarde."

// UserMessage traduce cualquier error del gateway a texto para WhatsApp.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	switch {
	case errors.Is(err, farms.ErrNameTooShort):
		return "❌ El nombre debe tener al menos 3 caracteres."
	case errors.Is(err, farms.ErrAlreadyRegistered):
		return "❌ Ya estás registrado en una finca."
	case errors.Is(err, farms.ErrNameTaken):
		return "❌ Ya existe una finca con ese nombre. Usa otro."
	case errors.Is(err, animals.ErrNotFound):
		return "❌ Animal no encontrado."
	}
	return genericMessage
}
