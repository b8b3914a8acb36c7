package repository

import (
	"context"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecorrenciaRepository interface {
	// ListByProfissional returns the professional's active recurring slots,
	// all patients included. The invoice sorter groups them per patient.
	ListByProfissional(ctx context.Context, clinicaID, profissionalID uuid.UUID) ([]model.Recorrencia, error)
}

type recorrenciaRepo struct{ db *gorm.DB }

func NewRecorrenciaRepository(db *gorm.DB) RecorrenciaRepository {
	return &recorrenciaRepo{db: db}
}

func (r *recorrenciaRepo) ListByProfissional(ctx context.Context, clinicaID, profissionalID uuid.UUID) ([]model.Recorrencia, error) {
	var recs []model.Recorrencia
	err := r.db.WithContext(ctx).
		Where("clinica_id = ? AND profissional_id = ? AND ativa = true", clinicaID, profissionalID).
		Find(&recs).Error
	return recs, err
}
