package repository

import (
	"context"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditoRepository interface {
	// ListarDisponiveisTx returns unconsumed credits for (paciente,
	// profissional) created strictly before corte, oldest first — the FIFO
	// pool an invoice may draw from. Runs inside the batch transaction so two
	// concurrent regenerations cannot see the same credit as available.
	ListarDisponiveisTx(tx *gorm.DB, pacienteID, profissionalID uuid.UUID, corte time.Time) ([]model.CreditoSessao, error)
	// CriarSeAusenteTx inserts the credit unless one already exists for the
	// same origin appointment (regeneration idempotence).
	CriarSeAusenteTx(tx *gorm.DB, c *model.CreditoSessao) error
	// ConsumirTx marks the credits as consumed by faturaID.
	ConsumirTx(tx *gorm.DB, ids []uuid.UUID, faturaID uuid.UUID, em time.Time) error
	// LiberarPorFaturaTx resets consumption state of every credit held by the
	// invoice — the release half of regeneration/deletion.
	LiberarPorFaturaTx(tx *gorm.DB, faturaID uuid.UUID) error
	// ExcluirNaoConsumidoPorOrigemTx removes the credit born from an
	// appointment whose cancellation was undone, but never a consumed one.
	ExcluirNaoConsumidoPorOrigemTx(tx *gorm.DB, origemAgendamentoID uuid.UUID) error
	ListarPorPaciente(ctx context.Context, clinicaID, pacienteID uuid.UUID, apenasDisponiveis bool) ([]model.CreditoSessao, error)
}

type creditoRepo struct{ db *gorm.DB }

func NewCreditoRepository(db *gorm.DB) CreditoRepository { return &creditoRepo{db: db} }

func (r *creditoRepo) ListarDisponiveisTx(tx *gorm.DB, pacienteID, profissionalID uuid.UUID, corte time.Time) ([]model.CreditoSessao, error) {
	var creditos []model.CreditoSessao
	err := tx.
		Where("paciente_id = ? AND profissional_id = ?", pacienteID, profissionalID).
		Where("consumido_por_fatura_id IS NULL").
		Where("created_at < ?", corte).
		Order("created_at ASC").
		Find(&creditos).Error
	return creditos, err
}

func (r *creditoRepo) CriarSeAusenteTx(tx *gorm.DB, c *model.CreditoSessao) error {
	return tx.
		Where("origem_agendamento_id = ?", c.OrigemAgendamentoID).
		FirstOrCreate(c).Error
}

func (r *creditoRepo) ConsumirTx(tx *gorm.DB, ids []uuid.UUID, faturaID uuid.UUID, em time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&model.CreditoSessao{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"consumido_por_fatura_id": faturaID,
			"consumido_em":            em,
		}).Error
}

func (r *creditoRepo) LiberarPorFaturaTx(tx *gorm.DB, faturaID uuid.UUID) error {
	return tx.Model(&model.CreditoSessao{}).
		Where("consumido_por_fatura_id = ?", faturaID).
		Updates(map[string]interface{}{
			"consumido_por_fatura_id": nil,
			"consumido_em":            nil,
		}).Error
}

func (r *creditoRepo) ExcluirNaoConsumidoPorOrigemTx(tx *gorm.DB, origemAgendamentoID uuid.UUID) error {
	return tx.
		Where("origem_agendamento_id = ? AND consumido_por_fatura_id IS NULL", origemAgendamentoID).
		Delete(&model.CreditoSessao{}).Error
}

func (r *creditoRepo) ListarPorPaciente(ctx context.Context, clinicaID, pacienteID uuid.UUID, apenasDisponiveis bool) ([]model.CreditoSessao, error) {
	var creditos []model.CreditoSessao
	q := r.db.WithContext(ctx).
		Where("clinica_id = ? AND paciente_id = ?", clinicaID, pacienteID)
	if apenasDisponiveis {
		q = q.Where("consumido_por_fatura_id IS NULL")
	}
	err := q.Order("created_at ASC").Find(&creditos).Error
	return creditos, err
}
