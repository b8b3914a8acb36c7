package service

import (
	"github.com/marvingbh/clinica-sub005/internal/model"
)

// Classificacao partitions a month's appointments for billing. Order inside
// each bucket preserves input order, which is chronological because the
// repository queries sorted by Inicio.
type Classificacao struct {
	// Faturaveis: FINALIZADO sessions of billable types — charged at full price.
	Faturaveis []model.Agendamento
	// GeradoresDeCredito: CANCELADO_ACORDADO / CANCELADO_FALTA sessions —
	// converted into reusable credits instead of a no-show charge.
	GeradoresDeCredito []model.Agendamento
	// Excluidos: future/unresolved (AGENDADO, CONFIRMADO), clinic-caused
	// cancellations (CANCELADO_PROFISSIONAL — no charge, no credit),
	// no-shows already resolved as NAO_COMPARECEU, and non-billable types.
	Excluidos []model.Agendamento
}

// ClassificarAgendamentos buckets one (professional, patient, month) slice.
func ClassificarAgendamentos(agendamentos []model.Agendamento) Classificacao {
	var cls Classificacao
	for _, a := range agendamentos {
		switch {
		case !a.Faturavel():
			cls.Excluidos = append(cls.Excluidos, a)
		case a.Status == model.StatusFinalizado:
			cls.Faturaveis = append(cls.Faturaveis, a)
		case a.Status.GeraCredito():
			cls.GeradoresDeCredito = append(cls.GeradoresDeCredito, a)
		default:
			cls.Excluidos = append(cls.Excluidos, a)
		}
	}
	return cls
}
