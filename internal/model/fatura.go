package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. PENDENTE is the only state batch regeneration may
// delete; ENVIADO and PAGO invoices are history and are skipped outright.
const (
	FaturaPendente = "PENDENTE"
	FaturaEnviado  = "ENVIADO"
	FaturaPago     = "PAGO"
)

// Invoice item types. Auto-generated items always carry an AgendamentoID or
// are CREDITO; manual items (added after generation) have neither.
const (
	ItemSessaoRegular = "SESSAO_REGULAR"
	ItemSessaoExtra   = "SESSAO_EXTRA"
	ItemSessaoGrupo   = "SESSAO_GRUPO"
	ItemReuniaoEscola = "REUNIAO_ESCOLA"
	ItemCredito       = "CREDITO"
)

// Fatura is one patient's bill for one professional for one calendar month.
// Uniquely identified by (ProfissionalID, PacienteID, MesReferencia,
// AnoReferencia); regeneration deletes and recreates rather than updating.
type Fatura struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicaID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ProfissionalID uuid.UUID `gorm:"type:uuid;index;not null"`
	PacienteID     uuid.UUID `gorm:"type:uuid;index;not null"`
	MesReferencia  int       `gorm:"not null"`
	AnoReferencia  int       `gorm:"not null"`
	TotalSessoes   int       `gorm:"not null;default:0"`
	// CreditosAplicados counts CREDITO items; ExtrasAdicionados counts
	// SESSAO_EXTRA and REUNIAO_ESCOLA items.
	CreditosAplicados int             `gorm:"not null;default:0"`
	ExtrasAdicionados int             `gorm:"not null;default:0"`
	ValorTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Vencimento        time.Time       `gorm:"not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'PENDENTE'"`
	MostrarDias       bool            `gorm:"not null;default:false"`
	// Mensagem is the rendered cobrança text sent to the patient.
	Mensagem  string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Itens []FaturaItem `gorm:"foreignKey:FaturaID;constraint:OnDelete:CASCADE"`
}

// Faturada reports whether the invoice left PENDENTE and must survive batch
// regeneration untouched.
func (f *Fatura) Faturada() bool {
	return f.Status == FaturaEnviado || f.Status == FaturaPago
}

// FaturaItem is one billable line. Invariant: sum of Total across the
// invoice's items equals Fatura.ValorTotal exactly.
type FaturaItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FaturaID uuid.UUID `gorm:"type:uuid;index;not null"`
	// AgendamentoID is nil for manual and CREDITO items.
	AgendamentoID *uuid.UUID `gorm:"type:uuid"`
	Tipo          string     `gorm:"type:varchar(20);not null"`
	Descricao     string     `gorm:"not null"`
	Quantidade    int        `gorm:"not null;default:1"`
	// ValorUnitario is negative for CREDITO lines.
	ValorUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

// Manual reports whether the item was added by hand after generation.
func (i *FaturaItem) Manual() bool {
	return i.AgendamentoID == nil && i.Tipo != ItemCredito
}
