package service

import (
	"context"
	"sort"

	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"

	"github.com/google/uuid"
)

// AplicarCreditos consumes the oldest necessarios credits (CreatedAt
// ascending) from disponiveis. Partial application is allowed: when the pool
// is short the shortfall simply stays uncovered, never an error. The input
// slice is not mutated.
func AplicarCreditos(disponiveis []model.CreditoSessao, necessarios int) (aplicados, restantes []model.CreditoSessao) {
	if necessarios < 0 {
		necessarios = 0
	}
	ordenados := make([]model.CreditoSessao, len(disponiveis))
	copy(ordenados, disponiveis)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].CreatedAt.Before(ordenados[j].CreatedAt)
	})

	if necessarios > len(ordenados) {
		necessarios = len(ordenados)
	}
	aplicados = ordenados[:necessarios]
	restantes = ordenados[necessarios:]
	return aplicados, restantes
}

// NovoCredito builds the SessionCredit row for a credit-generating
// appointment. The origin appointment id is unique, so regenerating a month
// can call this repeatedly without minting duplicates.
func NovoCredito(origem *model.Agendamento) *model.CreditoSessao {
	return &model.CreditoSessao{
		ClinicaID:           origem.ClinicaID,
		ProfissionalID:      origem.ProfissionalID,
		PacienteID:          *origem.PacienteID,
		OrigemAgendamentoID: origem.ID,
	}
}

// ─── CreditoService (consulta) ───────────────────────────────────────────────

type CreditoService interface {
	ListarPorPaciente(ctx context.Context, clinicaID uuid.UUID, filter dto.CreditoFilter) ([]dto.CreditoResponse, error)
}

type creditoService struct {
	repo repository.CreditoRepository
}

func NewCreditoService(repo repository.CreditoRepository) CreditoService {
	return &creditoService{repo: repo}
}

func (s *creditoService) ListarPorPaciente(ctx context.Context, clinicaID uuid.UUID, filter dto.CreditoFilter) ([]dto.CreditoResponse, error) {
	pacienteID, err := uuid.Parse(filter.PacienteID)
	if err != nil {
		return nil, err
	}
	creditos, err := s.repo.ListarPorPaciente(ctx, clinicaID, pacienteID, !filter.Todos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreditoResponse, 0, len(creditos))
	for _, c := range creditos {
		out = append(out, creditoToResponse(&c))
	}
	return out, nil
}

func creditoToResponse(c *model.CreditoSessao) dto.CreditoResponse {
	resp := dto.CreditoResponse{
		ID:                  c.ID.String(),
		PacienteID:          c.PacienteID.String(),
		ProfissionalID:      c.ProfissionalID.String(),
		OrigemAgendamentoID: c.OrigemAgendamentoID.String(),
		CriadoEm:            c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.ConsumidoPorFaturaID != nil {
		s := c.ConsumidoPorFaturaID.String()
		resp.ConsumidoPorFatura = &s
	}
	if c.ConsumidoEm != nil {
		s := c.ConsumidoEm.Format("2006-01-02T15:04:05Z")
		resp.ConsumidoEm = &s
	}
	return resp
}
