package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/apierror"
	"github.com/marvingbh/clinica-sub005/internal/dto"
	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"
	"github.com/marvingbh/clinica-sub005/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgendaService interface {
	AtualizarStatus(ctx context.Context, clinicaID, usuarioID, agendamentoID uuid.UUID, req dto.AtualizarStatusRequest) (*dto.AgendamentoResponse, error)
}

type agendaService struct {
	repo         repository.AgendamentoRepository
	pacienteRepo repository.PacienteRepository
	creditoRepo  repository.CreditoRepository
	dispatcher   *worker.Dispatcher
	// agora is injectable for tests; defaults to time.Now.
	agora func() time.Time
}

func NewAgendaService(
	repo repository.AgendamentoRepository,
	pacienteRepo repository.PacienteRepository,
	creditoRepo repository.CreditoRepository,
	dispatcher *worker.Dispatcher,
) AgendaService {
	return &agendaService{
		repo:         repo,
		pacienteRepo: pacienteRepo,
		creditoRepo:  creditoRepo,
		dispatcher:   dispatcher,
		agora:        time.Now,
	}
}

// AtualizarStatus moves one appointment through the status state machine:
//  1. Parse and validate the target against the transition table.
//  2. Apply the partial update (status + timestamp side effects) in one tx.
//  3. Inside the same tx: refresh the patient's last visit on FINALIZADO,
//     mint a session credit on CANCELADO_ACORDADO / CANCELADO_FALTA, and
//     revoke the unconsumed credit when the appointment leaves those states.
//  4. Enqueue the audit entry (old/new payload) — fire & forget.
func (s *agendaService) AtualizarStatus(ctx context.Context, clinicaID, usuarioID, agendamentoID uuid.UUID, req dto.AtualizarStatusRequest) (*dto.AgendamentoResponse, error) {
	alvo, err := model.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	ag, err := s.repo.FindByID(ctx, clinicaID, agendamentoID)
	if err != nil {
		return nil, apierror.NewNotFound("agendamento")
	}

	// Same status — no-op, nothing to validate or write.
	if ag.Status == alvo {
		return agendamentoToResponse(ag), nil
	}

	if !model.TransicaoValida(ag.Status, alvo) {
		permitidas := model.TransicoesPermitidas(ag.Status)
		nomes := make([]string, len(permitidas))
		for i, p := range permitidas {
			nomes[i] = string(p)
		}
		return nil, &apierror.TransitionError{
			Atual:      string(ag.Status),
			Alvo:       string(alvo),
			Permitidas: nomes,
		}
	}

	agora := s.agora()
	anterior := ag.Status
	campos := model.StatusUpdateFields(alvo, agora)
	if alvo.Cancelado() && req.Motivo != nil {
		campos["motivo_cancelamento"] = *req.Motivo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AtualizarStatusTx(tx, ag.ID, campos); err != nil {
			return err
		}

		if model.AtualizaUltimaVisita(alvo) && ag.PacienteID != nil {
			if err := s.pacienteRepo.AtualizarUltimaVisitaTx(tx, *ag.PacienteID, ag.Inicio); err != nil {
				return err
			}
		}

		// Credit side effects, only for billable patient sessions.
		if ag.Faturavel() {
			switch {
			case alvo.GeraCredito():
				if err := s.creditoRepo.CriarSeAusenteTx(tx, NovoCredito(ag)); err != nil {
					return err
				}
			case anterior.GeraCredito():
				// Leaving a credit-generating cancellation (undo or lateral
				// move) takes the credit back, unless an invoice already
				// consumed it.
				if err := s.creditoRepo.ExcluirNaoConsumidoPorOrigemTx(tx, ag.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.aplicarCampos(ag, alvo, campos)
	s.enfileirarAuditoria(ctx, clinicaID, usuarioID, ag.ID, anterior, alvo)
	return agendamentoToResponse(ag), nil
}

// aplicarCampos mirrors the persisted partial update onto the in-memory
// struct so the response reflects the new state without a re-read.
func (s *agendaService) aplicarCampos(ag *model.Agendamento, alvo model.Status, campos map[string]interface{}) {
	ag.Status = alvo
	if v, ok := campos["confirmado_em"]; ok {
		if t, ok := v.(time.Time); ok {
			ag.ConfirmadoEm = &t
		} else {
			ag.ConfirmadoEm = nil
		}
	}
	if v, ok := campos["cancelado_em"]; ok {
		if t, ok := v.(time.Time); ok {
			ag.CanceladoEm = &t
		} else {
			ag.CanceladoEm = nil
		}
	}
	if v, ok := campos["motivo_cancelamento"]; ok {
		motivo := v.(string)
		ag.MotivoCancelameto = &motivo
	}
}

func (s *agendaService) enfileirarAuditoria(ctx context.Context, clinicaID, usuarioID, agendamentoID uuid.UUID, anterior, novo model.Status) {
	if s.dispatcher == nil {
		return
	}
	valorAnterior, _ := json.Marshal(map[string]string{"status": string(anterior)})
	valorNovo, _ := json.Marshal(map[string]string{"status": string(novo)})
	payload := worker.AuditoriaJobPayload{
		ClinicaID:     clinicaID.String(),
		UsuarioID:     usuarioID.String(),
		Entidade:      "agendamento",
		EntidadeID:    agendamentoID.String(),
		Acao:          "atualizar_status",
		ValorAnterior: string(valorAnterior),
		ValorNovo:     string(valorNovo),
	}
	// Best-effort — a lost audit job must never fail the transition.
	_ = s.dispatcher.EnqueueAuditoria(ctx, payload)
}

func agendamentoToResponse(a *model.Agendamento) *dto.AgendamentoResponse {
	resp := &dto.AgendamentoResponse{
		ID:             a.ID.String(),
		ProfissionalID: a.ProfissionalID.String(),
		Inicio:         a.Inicio.Format(time.RFC3339),
		Fim:            a.Fim.Format(time.RFC3339),
		Status:         string(a.Status),
		Tipo:           a.Tipo,
		Motivo:         a.MotivoCancelameto,
	}
	if a.PacienteID != nil {
		s := a.PacienteID.String()
		resp.PacienteID = &s
	}
	if a.ConfirmadoEm != nil {
		s := a.ConfirmadoEm.Format(time.RFC3339)
		resp.ConfirmadoEm = &s
	}
	if a.CanceladoEm != nil {
		s := a.CanceladoEm.Format(time.RFC3339)
		resp.CanceladoEm = &s
	}
	return resp
}
