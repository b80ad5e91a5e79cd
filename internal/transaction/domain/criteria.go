package domain

import (
	"time"

	shared "github.com/davicafu/hexatransactions/internal/shared/domain"
)

// --- Criterios Específicos para el Dominio Transaction ---

// StatusCriteria filtra por estado exacto (pending, completed, etc.).
type StatusCriteria struct {
	Status string
}

// ToConditions implementa la interfaz shared.Criteria.
func (c StatusCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldStatus, Op: shared.OpEq, Value: c.Status},
	}
}

// -----------------------------------------------------------

// SubstatusCriteria filtra por subestado exacto.
type SubstatusCriteria struct {
	Substatus string
}

// ToConditions implementa la interfaz shared.Criteria.
func (c SubstatusCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldSubstatus, Op: shared.OpEq, Value: c.Substatus},
	}
}

// -----------------------------------------------------------

// CreatedAtRangeCriteria busca transacciones creadas en un rango de fechas.
// Ambos extremos son inclusivos y opcionales.
type CreatedAtRangeCriteria struct {
	Start *time.Time
	End   *time.Time
}

// ToConditions implementa la interfaz shared.Criteria.
func (c CreatedAtRangeCriteria) ToConditions() []shared.Criterion {
	var conds []shared.Criterion
	if c.Start != nil {
		conds = append(conds, shared.Criterion{Field: FieldCreatedAt, Op: shared.OpGte, Value: *c.Start})
	}
	if c.End != nil {
		conds = append(conds, shared.Criterion{Field: FieldCreatedAt, Op: shared.OpLte, Value: *c.End})
	}
	return conds
}
