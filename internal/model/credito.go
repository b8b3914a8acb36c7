package model

import (
	"time"

	"github.com/google/uuid"
)

// CreditoSessao is a banked session a patient is entitled to, issued when a
// session is cancelled under clinic-favorable terms (CANCELADO_ACORDADO or
// CANCELADO_FALTA). Available ⇔ ConsumidoPorFaturaID is nil. Consumption is
// FIFO by CreatedAt; regenerating the consuming invoice resets both fields
// to nil so the credit returns to the pool.
type CreditoSessao struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ProfissionalID uuid.UUID `gorm:"type:uuid;index;not null"`
	PacienteID     uuid.UUID `gorm:"type:uuid;index;not null"`
	// OrigemAgendamentoID is unique: exactly one credit per credit-generating
	// appointment, regardless of how many times the month is regenerated.
	OrigemAgendamentoID  uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	ConsumidoPorFaturaID *uuid.UUID `gorm:"type:uuid;index"`
	ConsumidoEm          *time.Time
	CreatedAt            time.Time
}

// Disponivel reports whether the credit can still be applied to an invoice.
func (c *CreditoSessao) Disponivel() bool { return c.ConsumidoPorFaturaID == nil }
