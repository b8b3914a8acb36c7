package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

// GerarFaturasRequest triggers batch (re)generation for one professional's month.
type GerarFaturasRequest struct {
	ProfissionalID string `json:"profissional_id" validate:"required,uuid"`
	Mes            int    `json:"mes"             validate:"required,min=1,max=12"`
	Ano            int    `json:"ano"             validate:"required,min=2000,max=2100"`
}

// AdicionarItemRequest appends a manual line to an existing invoice.
type AdicionarItemRequest struct {
	Tipo          string          `json:"tipo"           validate:"required,oneof=SESSAO_EXTRA REUNIAO_ESCOLA"`
	Descricao     string          `json:"descricao"      validate:"required"`
	Quantidade    int             `json:"quantidade"     validate:"required,min=1"`
	ValorUnitario decimal.Decimal `json:"valor_unitario" validate:"required"`
}

// AtualizarStatusFaturaRequest moves an invoice along PENDENTE → ENVIADO → PAGO.
type AtualizarStatusFaturaRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDENTE ENVIADO PAGO"`
}

// FaturaFilter is bound from the query string of GET /v1/faturas.
type FaturaFilter struct {
	ProfissionalID string `form:"profissional_id" validate:"required,uuid"`
	Mes            int    `form:"mes"             validate:"required,min=1,max=12"`
	Ano            int    `form:"ano"             validate:"required,min=2000,max=2100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type FaturaItemResponse struct {
	ID            string          `json:"id"`
	AgendamentoID *string         `json:"agendamento_id,omitempty"`
	Tipo          string          `json:"tipo"`
	Descricao     string          `json:"descricao"`
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Total         decimal.Decimal `json:"total"`
}

type FaturaResponse struct {
	ID                string               `json:"id"`
	ProfissionalID    string               `json:"profissional_id"`
	PacienteID        string               `json:"paciente_id"`
	PacienteNome      string               `json:"paciente_nome,omitempty"`
	MesReferencia     int                  `json:"mes_referencia"`
	AnoReferencia     int                  `json:"ano_referencia"`
	TotalSessoes      int                  `json:"total_sessoes"`
	CreditosAplicados int                  `json:"creditos_aplicados"`
	ExtrasAdicionados int                  `json:"extras_adicionados"`
	ValorTotal        decimal.Decimal      `json:"valor_total"`
	Vencimento        string               `json:"vencimento"`
	Status            string               `json:"status"`
	MostrarDias       bool                 `json:"mostrar_dias"`
	Mensagem          string               `json:"mensagem"`
	Itens             []FaturaItemResponse `json:"itens"`
}

// GerarFaturasResponse summarizes one batch run.
type GerarFaturasResponse struct {
	Geradas  []FaturaResponse `json:"geradas"`
	Puladas  []string         `json:"puladas"` // invoice IDs skipped (ENVIADO/PAGO)
	Mes      int              `json:"mes"`
	Ano      int              `json:"ano"`
}
