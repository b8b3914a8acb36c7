package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clinica is the tenant root. Every other entity carries a ClinicaID and all
// queries are scoped by it.
type Clinica struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome string    `gorm:"not null"`
	// MensagemFatura is the default cobrança template; patients may override it.
	// Placeholders: {{paciente}}, {{mae}}, {{pai}}, {{valor}}, {{mes}}, {{ano}}, {{vencimento}}
	MensagemFatura string `gorm:"type:text"`
	// PercentualImposto is the clinic's tax withholding applied before repasse.
	PercentualImposto decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Ativa             bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
