package dto

// ─── Requests ────────────────────────────────────────────────────────────────

// AtualizarStatusRequest is the body of PATCH /v1/agendamentos/:id/status.
type AtualizarStatusRequest struct {
	Status string `json:"status" validate:"required"`
	// Motivo is stored as cancellation reason when moving into a CANCELADO_* state.
	Motivo *string `json:"motivo"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type AgendamentoResponse struct {
	ID             string  `json:"id"`
	ProfissionalID string  `json:"profissional_id"`
	PacienteID     *string `json:"paciente_id,omitempty"`
	Inicio         string  `json:"inicio"`
	Fim            string  `json:"fim"`
	Status         string  `json:"status"`
	Tipo           string  `json:"tipo"`
	ConfirmadoEm   *string `json:"confirmado_em,omitempty"`
	CanceladoEm    *string `json:"cancelado_em,omitempty"`
	Motivo         *string `json:"motivo_cancelamento,omitempty"`
}
