package model

import (
	"time"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusAgendado              Status = "AGENDADO"
	StatusConfirmado            Status = "CONFIRMADO"
	StatusFinalizado            Status = "FINALIZADO"
	StatusNaoCompareceu         Status = "NAO_COMPARECEU"
	StatusCanceladoProfissional Status = "CANCELADO_PROFISSIONAL"
	StatusCanceladoAcordado     Status = "CANCELADO_ACORDADO"
	StatusCanceladoFalta        Status = "CANCELADO_FALTA"
)

// transicoes is the full transition table. Terminal states (FINALIZADO,
// NAO_COMPARECEU) have an empty entry rather than a missing one so callers
// can distinguish "terminal" from "unknown status". Cancelled states may move
// laterally between each other or revert to AGENDADO, never directly to
// CONFIRMADO or FINALIZADO.
var transicoes = map[Status][]Status{
	StatusAgendado: {
		StatusConfirmado, StatusFinalizado, StatusNaoCompareceu,
		StatusCanceladoProfissional, StatusCanceladoAcordado, StatusCanceladoFalta,
	},
	StatusConfirmado: {
		StatusFinalizado, StatusNaoCompareceu,
		StatusCanceladoProfissional, StatusCanceladoAcordado, StatusCanceladoFalta,
	},
	StatusCanceladoProfissional: {StatusCanceladoAcordado, StatusCanceladoFalta, StatusAgendado},
	StatusCanceladoAcordado:     {StatusCanceladoProfissional, StatusCanceladoFalta, StatusAgendado},
	StatusCanceladoFalta:        {StatusCanceladoProfissional, StatusCanceladoAcordado, StatusAgendado},
	StatusFinalizado:            {},
	StatusNaoCompareceu:         {},
}

// ParseStatus validates an incoming status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transicoes[st]; !ok {
		return "", &apierror.InvalidStatusError{Valor: s}
	}
	return st, nil
}

// Cancelado reports whether s is one of the three cancelled states.
func (s Status) Cancelado() bool {
	switch s {
	case StatusCanceladoProfissional, StatusCanceladoAcordado, StatusCanceladoFalta:
		return true
	}
	return false
}

// GeraCredito reports whether a cancellation in this status converts the
// session into a reusable credit. Clinic-caused cancellations
// (CANCELADO_PROFISSIONAL) are excluded entirely: no charge, no credit.
func (s Status) GeraCredito() bool {
	return s == StatusCanceladoAcordado || s == StatusCanceladoFalta
}

// TransicaoValida reports whether atual → alvo is allowed by the table.
// atual == alvo is NOT handled here; the caller treats it as a no-op.
func TransicaoValida(atual, alvo Status) bool {
	for _, t := range transicoes[atual] {
		if t == alvo {
			return true
		}
	}
	return false
}

// TransicoesPermitidas returns the allowed next statuses for atual, in table
// order. Empty for terminal or unknown states.
func TransicoesPermitidas(atual Status) []Status {
	out := make([]Status, len(transicoes[atual]))
	copy(out, transicoes[atual])
	return out
}

// StatusUpdateFields computes the partial column update for a transition, in
// the shape gorm's Updates expects:
//   - CONFIRMADO sets confirmado_em
//   - any CANCELADO_* sets cancelado_em
//   - AGENDADO (undo) clears both timestamps
//   - FINALIZADO and NAO_COMPARECEU touch only the status column
func StatusUpdateFields(alvo Status, agora time.Time) map[string]interface{} {
	campos := map[string]interface{}{"status": alvo}
	switch {
	case alvo == StatusConfirmado:
		campos["confirmado_em"] = agora
	case alvo.Cancelado():
		campos["cancelado_em"] = agora
	case alvo == StatusAgendado:
		campos["confirmado_em"] = nil
		campos["cancelado_em"] = nil
	}
	return campos
}

// AtualizaUltimaVisita reports whether reaching alvo must refresh the
// patient's UltimaVisitaEm.
func AtualizaUltimaVisita(alvo Status) bool {
	return alvo == StatusFinalizado
}
