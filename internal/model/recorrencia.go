package model

import (
	"time"

	"github.com/google/uuid"
)

// Recorrencia is a patient's recurring weekly slot with a professional.
// DiaSemana follows the calendar convention of the scheduling UI:
// 0 = Sunday … 6 = Saturday. Invoice ordering remaps it so the printed batch
// runs Monday-first with Sunday last (see service.RankDiaSemana).
type Recorrencia struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ProfissionalID uuid.UUID `gorm:"type:uuid;index;not null"`
	PacienteID     uuid.UUID `gorm:"type:uuid;index;not null"`
	DiaSemana      int       `gorm:"not null"`
	// HoraInicio is zero-padded "HH:MM"; lexicographic order == chronological order.
	HoraInicio string `gorm:"type:varchar(5);not null"`
	HoraFim    string `gorm:"type:varchar(5);not null"`
	Ativa      bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
