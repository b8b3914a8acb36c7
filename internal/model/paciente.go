package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Paciente holds patient data plus the billing fields the invoice generator
// reads (session fee, template override, day listing preference).
type Paciente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Nome      string    `gorm:"not null"`
	NomeMae   *string
	NomePai   *string
	Email     *string
	Telefone  *string
	// ValorSessao is the default per-session fee; an Agendamento may override it.
	ValorSessao decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// MensagemFatura overrides the clinic-level cobrança template when set.
	MensagemFatura *string `gorm:"type:text"`
	// MostrarDiasNaFatura controls whether item descriptions carry the session date.
	MostrarDiasNaFatura bool `gorm:"not null;default:false"`
	// UltimaVisitaEm is refreshed whenever an appointment reaches FINALIZADO.
	UltimaVisitaEm *time.Time
	Ativo          bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
