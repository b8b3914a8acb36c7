package worker

// auditoria_worker.go
// Persists audit-log entries produced by the routes. The core builds the
// old/new payload synchronously; writing the row happens off the request path.

import (
	"context"
	"encoding/json"

	"github.com/marvingbh/clinica-sub005/internal/model"
	"github.com/marvingbh/clinica-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditoriaJobPayload is the job envelope sent to QueueAuditoria.
type AuditoriaJobPayload struct {
	ClinicaID     string `json:"clinica_id"`
	UsuarioID     string `json:"usuario_id"`
	Entidade      string `json:"entidade"`
	EntidadeID    string `json:"entidade_id"`
	Acao          string `json:"acao"`
	ValorAnterior string `json:"valor_anterior"`
	ValorNovo     string `json:"valor_novo"`
}

type AuditoriaWorker struct {
	repo repository.AuditoriaRepository
}

func NewAuditoriaWorker(repo repository.AuditoriaRepository) *AuditoriaWorker {
	return &AuditoriaWorker{repo: repo}
}

func (w *AuditoriaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditoriaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("auditoria_worker: invalid payload")
		return
	}

	clinicaID, err := uuid.Parse(payload.ClinicaID)
	if err != nil {
		log.Error().Err(err).Msg("auditoria_worker: clinica_id inválido")
		return
	}
	usuarioID, err := uuid.Parse(payload.UsuarioID)
	if err != nil {
		log.Error().Err(err).Msg("auditoria_worker: usuario_id inválido")
		return
	}
	entidadeID, err := uuid.Parse(payload.EntidadeID)
	if err != nil {
		log.Error().Err(err).Msg("auditoria_worker: entidade_id inválido")
		return
	}

	entrada := &model.Auditoria{
		ClinicaID:     clinicaID,
		UsuarioID:     usuarioID,
		Entidade:      payload.Entidade,
		EntidadeID:    entidadeID,
		Acao:          payload.Acao,
		ValorAnterior: payload.ValorAnterior,
		ValorNovo:     payload.ValorNovo,
	}
	if err := w.repo.Create(ctx, entrada); err != nil {
		log.Error().Err(err).Str("entidade", payload.Entidade).Msg("auditoria_worker: persist failed")
		return
	}
	log.Debug().Str("entidade", payload.Entidade).Str("acao", payload.Acao).Msg("auditoria_worker: entry stored")
}
