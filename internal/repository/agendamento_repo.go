package repository

import (
	"context"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgendamentoRepository interface {
	FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Agendamento, error)
	// ListByProfissionalPeriodo returns the professional's appointments with
	// Inicio in [inicio, fim), ordered chronologically. Classification relies
	// on this ordering: bucket order == input order.
	ListByProfissionalPeriodo(ctx context.Context, clinicaID, profissionalID uuid.UUID, inicio, fim time.Time) ([]model.Agendamento, error)
	// AtualizarStatusTx applies the partial update computed by
	// model.StatusUpdateFields inside the caller's transaction.
	AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type agendamentoRepo struct{ db *gorm.DB }

func NewAgendamentoRepository(db *gorm.DB) AgendamentoRepository {
	return &agendamentoRepo{db: db}
}

func (r *agendamentoRepo) DB() *gorm.DB { return r.db }

func (r *agendamentoRepo) FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Agendamento, error) {
	var a model.Agendamento
	err := r.db.WithContext(ctx).
		Where("clinica_id = ?", clinicaID).
		First(&a, id).Error
	return &a, err
}

func (r *agendamentoRepo) ListByProfissionalPeriodo(ctx context.Context, clinicaID, profissionalID uuid.UUID, inicio, fim time.Time) ([]model.Agendamento, error) {
	var ags []model.Agendamento
	err := r.db.WithContext(ctx).
		Where("clinica_id = ? AND profissional_id = ?", clinicaID, profissionalID).
		Where("inicio >= ? AND inicio < ?", inicio, fim).
		Order("inicio ASC").
		Find(&ags).Error
	return ags, err
}

func (r *agendamentoRepo) AtualizarStatusTx(tx *gorm.DB, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Agendamento{}).
		Where("id = ?", id).
		Updates(campos).Error
}
