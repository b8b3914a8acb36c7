package service

import (
	"sort"
	"strings"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
)

// RankDiaSemana remaps the calendar convention (0 = Sunday … 6 = Saturday)
// so that a printed monthly batch reads like a weekly schedule: Monday = 0 …
// Saturday = 5, Sunday = 6 (last).
func RankDiaSemana(dia int) int {
	if dia == 0 {
		return 6
	}
	return dia - 1
}

// EscolherRecorrenciaMaisCedo resolves a patient with several recurring slots
// to the single earliest one, by the same weekday-then-time ordering used for
// the invoices themselves. Returns nil for an empty slice.
func EscolherRecorrenciaMaisCedo(recs []model.Recorrencia) *model.Recorrencia {
	var melhor *model.Recorrencia
	for i := range recs {
		r := &recs[i]
		if melhor == nil || recorrenciaAntes(r, melhor) {
			melhor = r
		}
	}
	return melhor
}

func recorrenciaAntes(a, b *model.Recorrencia) bool {
	if RankDiaSemana(a.DiaSemana) != RankDiaSemana(b.DiaSemana) {
		return RankDiaSemana(a.DiaSemana) < RankDiaSemana(b.DiaSemana)
	}
	// Zero-padded "HH:MM": lexicographic == chronological.
	return a.HoraInicio < b.HoraInicio
}

// OrdenarFaturasPorRecorrencia orders a professional's monthly batch by each
// patient's recurring weekly slot: weekday rank, then start time, then
// patient name. Patients without a recurrence sort after everyone who has
// one, alphabetically. The input slice is never mutated — a new ordered copy
// is returned.
func OrdenarFaturasPorRecorrencia(faturas []model.Fatura, recorrencias []model.Recorrencia, nomes map[uuid.UUID]string) []model.Fatura {
	porPaciente := make(map[uuid.UUID][]model.Recorrencia)
	for _, r := range recorrencias {
		porPaciente[r.PacienteID] = append(porPaciente[r.PacienteID], r)
	}
	escolhida := make(map[uuid.UUID]*model.Recorrencia, len(porPaciente))
	for pacienteID, recs := range porPaciente {
		escolhida[pacienteID] = EscolherRecorrenciaMaisCedo(recs)
	}

	ordenadas := make([]model.Fatura, len(faturas))
	copy(ordenadas, faturas)

	sort.SliceStable(ordenadas, func(i, j int) bool {
		ri := escolhida[ordenadas[i].PacienteID]
		rj := escolhida[ordenadas[j].PacienteID]

		// With-recurrence before without-recurrence.
		if (ri == nil) != (rj == nil) {
			return rj == nil
		}
		if ri != nil && rj != nil {
			if recorrenciaAntes(ri, rj) {
				return true
			}
			if recorrenciaAntes(rj, ri) {
				return false
			}
		}
		return nomeAntes(nomes[ordenadas[i].PacienteID], nomes[ordenadas[j].PacienteID])
	})
	return ordenadas
}

func nomeAntes(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
