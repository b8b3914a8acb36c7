package repository

import (
	"context"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfissionalRepository interface {
	FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Profissional, error)
}

type profissionalRepo struct{ db *gorm.DB }

func NewProfissionalRepository(db *gorm.DB) ProfissionalRepository {
	return &profissionalRepo{db: db}
}

func (r *profissionalRepo) FindByID(ctx context.Context, clinicaID, id uuid.UUID) (*model.Profissional, error) {
	var p model.Profissional
	err := r.db.WithContext(ctx).
		Where("clinica_id = ?", clinicaID).
		First(&p, id).Error
	return &p, err
}
