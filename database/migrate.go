package database

import (
	"fmt"

	"clinica-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/FKs)
// - Money column types (NUMERIC(12,2))
// - Indexes (movements, transactions, appointments, clinical notes)
// - Basic CHECK constraints backing the stock invariants
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Patient{},
			&models.Practitioner{},
			&models.Procedure{},
			&models.Appointment{},
			&models.Product{},
			&models.Movement{},
			&models.Transaction{},
			&models.ClinicalNote{},
			&models.Anamnesis{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE procedures   ALTER COLUMN valor          TYPE numeric(12,2)`,
			`ALTER TABLE products     ALTER COLUMN preco_medio    TYPE numeric(12,2)`,
			`ALTER TABLE movements    ALTER COLUMN valor_unitario TYPE numeric(12,2)`,
			`ALTER TABLE transactions ALTER COLUMN valor          TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_movements_product_date ON movements (produto_id, data)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_tipo_data ON transactions (tipo, data)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_window ON appointments (data_horario)`,
			`CREATE INDEX IF NOT EXISTS idx_clinical_notes_patient_date ON clinical_notes (paciente_id, data)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// The database is the last line of defense for the no-negative-stock invariant.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'products'::regclass
					  AND conname  = 'chk_products_qtd_nonneg'
				) THEN
					ALTER TABLE products
					ADD CONSTRAINT chk_products_qtd_nonneg
					CHECK (qtd >= 0);
				END IF;
			END $$;`,
			// Movements always carry a positive quantity; direction lives in tipo.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'movements'::regclass
					  AND conname  = 'chk_movements_qtd_positive'
				) THEN
					ALTER TABLE movements
					ADD CONSTRAINT chk_movements_qtd_positive
					CHECK (qtd > 0);
				END IF;
			END $$;`,
			// Non-negative catalog price
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'procedures'::regclass
					  AND conname  = 'chk_procedures_valor_nonneg'
				) THEN
					ALTER TABLE procedures
					ADD CONSTRAINT chk_procedures_valor_nonneg
					CHECK (valor >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
