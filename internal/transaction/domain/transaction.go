package domain

import (
	"time"
)

// Campos del documento con significado para el listado.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldStatus    = "status"
	FieldSubstatus = "substatus"
)

// Vocabulario habitual de estados. Lo define el sistema que escribe las
// transacciones; aquí sólo se usa para generar datos de prueba.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Transaction es un documento de la colección de transacciones.
// Sólo createdAt, status y substatus se interpretan; el resto del documento
// viaja sin modificaciones hasta la respuesta.
type Transaction map[string]interface{}

// CreatedAt devuelve la fecha de creación o el zero value si falta.
func (t Transaction) CreatedAt() time.Time {
	switch v := t[FieldCreatedAt].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func (t Transaction) Status() string {
	s, _ := t[FieldStatus].(string)
	return s
}

func (t Transaction) Substatus() string {
	s, _ := t[FieldSubstatus].(string)
	return s
}
