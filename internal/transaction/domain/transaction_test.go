package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_Accessors(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tx := Transaction{
		FieldCreatedAt: created,
		FieldStatus:    StatusCompleted,
		FieldSubstatus: "settled",
		"amount":       120.5,
	}

	assert.Equal(t, created, tx.CreatedAt())
	assert.Equal(t, StatusCompleted, tx.Status())
	assert.Equal(t, "settled", tx.Substatus())
}

func TestTransaction_AccessorsOnMissingOrForeignTypes(t *testing.T) {
	tx := Transaction{FieldStatus: 3, FieldCreatedAt: "2024-01-01"}

	assert.True(t, tx.CreatedAt().IsZero())
	assert.Empty(t, tx.Status())
	assert.Empty(t, tx.Substatus())
}
