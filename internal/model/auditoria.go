package model

import (
	"time"

	"github.com/google/uuid"
)

// Auditoria is an immutable audit entry. Rows are only ever inserted —
// corrections produce new entries, never updates.
type Auditoria struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID  uuid.UUID `gorm:"type:uuid;index;not null"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null"`
	Entidade   string    `gorm:"type:varchar(40);not null"`
	EntidadeID uuid.UUID `gorm:"type:uuid;index;not null"`
	Acao       string    `gorm:"type:varchar(40);not null"`
	// ValorAnterior / ValorNovo are JSON-encoded snapshots of the changed fields.
	ValorAnterior string `gorm:"type:jsonb"`
	ValorNovo     string `gorm:"type:jsonb"`
	CreatedAt     time.Time
}
