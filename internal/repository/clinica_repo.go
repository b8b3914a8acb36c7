package repository

import (
	"context"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Clinica, error)
}

type clinicaRepo struct{ db *gorm.DB }

func NewClinicaRepository(db *gorm.DB) ClinicaRepository { return &clinicaRepo{db: db} }

func (r *clinicaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Clinica, error) {
	var c model.Clinica
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}
