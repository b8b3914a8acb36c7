package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Appointment types. CONSULTA, REUNIAO and GRUPO are billable; everything
// else (blocks, personal slots) never reaches an invoice.
const (
	TipoConsulta = "CONSULTA"
	TipoReuniao  = "REUNIAO"
	TipoGrupo    = "GRUPO"
	TipoBloqueio = "BLOQUEIO"
)

// Agendamento is one scheduled (or past) session. Never physically deleted —
// lifecycle is carried entirely by Status.
type Agendamento struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ProfissionalID uuid.UUID `gorm:"type:uuid;index;not null"`
	// PacienteID is nil for non-patient blocks (BLOQUEIO).
	PacienteID *uuid.UUID `gorm:"type:uuid;index"`
	Inicio     time.Time  `gorm:"not null;index"`
	Fim        time.Time  `gorm:"not null"`
	Status     Status     `gorm:"type:varchar(30);not null;default:'AGENDADO'"`
	Tipo       string     `gorm:"type:varchar(20);not null;default:'CONSULTA'"`
	// Valor overrides the patient's ValorSessao for this single session when set.
	Valor *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// RecorrenciaID links back to the recurring slot that created this session.
	RecorrenciaID     *uuid.UUID `gorm:"type:uuid;index"`
	GrupoID           *uuid.UUID `gorm:"type:uuid;index"`
	ConfirmadoEm      *time.Time
	CanceladoEm       *time.Time
	MotivoCancelameto *string `gorm:"column:motivo_cancelamento"`
	Observacoes       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Faturavel reports whether this appointment's type can ever produce a
// billable invoice item.
func (a *Agendamento) Faturavel() bool {
	switch a.Tipo {
	case TipoConsulta, TipoReuniao, TipoGrupo:
		return a.PacienteID != nil
	}
	return false
}

// ValorCobrado resolves the effective price of the session: the per-session
// override when present, otherwise the patient's default fee.
func (a *Agendamento) ValorCobrado(valorPadrao decimal.Decimal) decimal.Decimal {
	if a.Valor != nil {
		return *a.Valor
	}
	return valorPadrao
}
