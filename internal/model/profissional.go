package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profissional is the billing profile of a clinic professional.
type Profissional struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID uuid.UUID  `gorm:"type:uuid;index;not null"`
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	Nome      string     `gorm:"not null"`
	// PercentualRepasse is the share of the after-tax value paid out monthly.
	PercentualRepasse decimal.Decimal `gorm:"type:decimal(5,2);not null;default:100"`
	Ativo             bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
