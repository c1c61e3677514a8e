package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		full_name VARCHAR(150) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'operator',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_username ON users (LOWER(username));`,
	`CREATE TABLE IF NOT EXISTS awardees (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		middle_name VARCHAR(50) NOT NULL DEFAULT '',
		last_name VARCHAR(50) NOT NULL,
		second_last_name VARCHAR(50) NOT NULL DEFAULT '',
		id_number VARCHAR(20) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(100) NOT NULL DEFAULT '',
		address VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_awardees_id_number ON awardees (id_number);`,
	`CREATE TABLE IF NOT EXISTS cash_registers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_cash_registers_status CHECK (status IN ('active', 'inactive', 'maintenance'))
	);`,
	`CREATE TABLE IF NOT EXISTS fiscal_years (
		id BIGSERIAL PRIMARY KEY,
		year INTEGER NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_fiscal_years_dates CHECK (start_date < end_date),
		CONSTRAINT chk_fiscal_years_status CHECK (status IN ('active', 'inactive'))
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_fiscal_years_year ON fiscal_years (year);`,
	`CREATE TABLE IF NOT EXISTS internal_items (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		installation_type VARCHAR(255) NOT NULL DEFAULT '',
		payment_count INTEGER NOT NULL DEFAULT 0 CHECK (payment_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_internal_items_name ON internal_items (LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS external_items (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		installation_type VARCHAR(255) NOT NULL DEFAULT '',
		payment_count INTEGER NOT NULL DEFAULT 0 CHECK (payment_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_external_items_name ON external_items (LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS zones (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_zones_name ON zones (LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS sectors (
		id BIGSERIAL PRIMARY KEY,
		zone_id BIGINT NOT NULL REFERENCES zones(id),
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_sectors_zone_name ON sectors (zone_id, LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS stalls (
		id BIGSERIAL PRIMARY KEY,
		sector_id BIGINT NOT NULL REFERENCES sectors(id),
		code VARCHAR(30) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_stalls_sector_code ON stalls (sector_id, LOWER(code));`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGSERIAL PRIMARY KEY,
		awardee_id BIGINT NOT NULL REFERENCES awardees(id),
		fiscal_year_id BIGINT NOT NULL REFERENCES fiscal_years(id),
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		type VARCHAR(20) NOT NULL,
		contract_mode VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contracts_dates CHECK (start_date < end_date),
		CONSTRAINT chk_contracts_type CHECK (type IN ('simultaneous', 'advance')),
		CONSTRAINT chk_contracts_mode CHECK (contract_mode IN ('monthly', 'weekly'))
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_awardee_id ON contracts (awardee_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_fiscal_year_id ON contracts (fiscal_year_id);`,
	`CREATE TABLE IF NOT EXISTS contract_categories (
		id BIGSERIAL PRIMARY KEY,
		contract_id BIGINT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		category_type VARCHAR(10) NOT NULL CHECK (category_type IN ('internal', 'external')),
		category_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		payment_count INTEGER NOT NULL DEFAULT 0,
		installation_type VARCHAR(255) NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_categories_contract_id ON contract_categories (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_categories_source ON contract_categories (category_type, category_id);`,
	`CREATE TABLE IF NOT EXISTS contract_locations (
		id BIGSERIAL PRIMARY KEY,
		contract_id BIGINT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		stall_id BIGINT NOT NULL REFERENCES stalls(id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_locations ON contract_locations (contract_id, stall_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_locations_stall_id ON contract_locations (stall_id);`,
	`CREATE TABLE IF NOT EXISTS exchange_rates (
		id BIGSERIAL PRIMARY KEY,
		rate_date DATE NOT NULL,
		euro_rate NUMERIC(18,4) NOT NULL CHECK (euro_rate > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_exchange_rates_rate_date ON exchange_rates (rate_date);`,
	`CREATE TABLE IF NOT EXISTS contract_payments (
		id BIGSERIAL PRIMARY KEY,
		contract_id BIGINT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		payment_reference VARCHAR(32) NOT NULL,
		payment_date DATE NOT NULL,
		multiplier_factor NUMERIC(18,4) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_contract_payments_status CHECK (status IN ('pending', 'paid', 'cancelled', 'refunded'))
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_payments_reference ON contract_payments (payment_reference);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_payments_contract_id ON contract_payments (contract_id, payment_date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
