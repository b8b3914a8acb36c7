package dto

import "github.com/shopspring/decimal"

// RepasseFilter is bound from the query string of GET /v1/repasse.
type RepasseFilter struct {
	ProfissionalID string `form:"profissional_id" validate:"required,uuid"`
	Mes            int    `form:"mes"             validate:"required,min=1,max=12"`
	Ano            int    `form:"ano"             validate:"required,min=2000,max=2100"`
}

// RepasseLinhaResponse is the per-invoice payout line of the monthly report.
type RepasseLinhaResponse struct {
	FaturaID     string          `json:"fatura_id"`
	PacienteNome string          `json:"paciente_nome"`
	Sessoes      int             `json:"sessoes"`
	ValorBruto   decimal.Decimal `json:"valor_bruto"`
	Imposto      decimal.Decimal `json:"imposto"`
	ValorLiquido decimal.Decimal `json:"valor_liquido"`
	Repasse      decimal.Decimal `json:"repasse"`
}

// RepasseResumoResponse aggregates the already-rounded per-invoice values.
type RepasseResumoResponse struct {
	TotalBruto   decimal.Decimal `json:"total_bruto"`
	TotalImposto decimal.Decimal `json:"total_imposto"`
	TotalLiquido decimal.Decimal `json:"total_liquido"`
	TotalRepasse decimal.Decimal `json:"total_repasse"`
	TotalSessoes int             `json:"total_sessoes"`
}

type RepasseResponse struct {
	ProfissionalID string                 `json:"profissional_id"`
	Mes            int                    `json:"mes"`
	Ano            int                    `json:"ano"`
	Linhas         []RepasseLinhaResponse `json:"linhas"`
	Resumo         RepasseResumoResponse  `json:"resumo"`
}

// ─── Créditos ────────────────────────────────────────────────────────────────

type CreditoResponse struct {
	ID                  string  `json:"id"`
	PacienteID          string  `json:"paciente_id"`
	ProfissionalID      string  `json:"profissional_id"`
	OrigemAgendamentoID string  `json:"origem_agendamento_id"`
	CriadoEm            string  `json:"criado_em"`
	ConsumidoPorFatura  *string `json:"consumido_por_fatura,omitempty"`
	ConsumidoEm         *string `json:"consumido_em,omitempty"`
}

type CreditoFilter struct {
	PacienteID     string `form:"paciente_id"     validate:"required,uuid"`
	ProfissionalID string `form:"profissional_id" validate:"omitempty,uuid"`
	// Todos includes consumed credits; default lists only available ones.
	Todos bool `form:"todos"`
}
