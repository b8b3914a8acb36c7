package infra

import (
	"fmt"

	"github.com/marvingbh/clinica-sub005/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Clinica{},
		&model.Usuario{},
		&model.Profissional{},
		&model.Paciente{},
		&model.Recorrencia{},
		&model.Agendamento{},
		&model.CreditoSessao{},
		&model.Fatura{},
		&model.FaturaItem{},
		&model.Auditoria{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One live invoice per (profissional, paciente, mês): regeneration
		// deletes and recreates, so the unique index only guards races.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_faturas_referencia_unica') THEN
		    CREATE UNIQUE INDEX idx_faturas_referencia_unica
		        ON faturas (profissional_id, paciente_id, mes_referencia, ano_referencia);
		  END IF;
		END $$`,
		// Partial index for the FIFO pool query: available credits only.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_creditos_disponiveis') THEN
		    CREATE INDEX idx_creditos_disponiveis
		        ON credito_sessaos (paciente_id, profissional_id, created_at)
		        WHERE consumido_por_fatura_id IS NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Clinica{},
		&model.Usuario{},
		&model.Profissional{},
		&model.Paciente{},
		&model.Recorrencia{},
		&model.Agendamento{},
		&model.CreditoSessao{},
		&model.Fatura{},
		&model.FaturaItem{},
		&model.Auditoria{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
