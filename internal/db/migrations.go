package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'event_status') THEN
			CREATE TYPE event_status AS ENUM ('draft', 'uploading', 'processing', 'completed');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'photo_status') THEN
			CREATE TYPE photo_status AS ENUM ('pending', 'detecting', 'analyzing', 'completed', 'failed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(200) NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		location TEXT,
		status event_status NOT NULL DEFAULT 'draft',
		total_photos INTEGER NOT NULL DEFAULT 0,
		processed_photos INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_events_deleted_at ON events (deleted_at);`,
	`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date);`,
	`CREATE TABLE IF NOT EXISTS photos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		file_size BIGINT NOT NULL,
		mime_type VARCHAR(64) NOT NULL,
		width INTEGER,
		height INTEGER,
		status photo_status NOT NULL DEFAULT 'pending',
		unclassified_reason VARCHAR(32),
		captured_at TIMESTAMPTZ,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_event_id ON photos (event_id);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_status ON photos (status);`,
	`CREATE INDEX IF NOT EXISTS idx_photos_uploaded_at ON photos (uploaded_at);`,
	`CREATE TABLE IF NOT EXISTS detected_cyclists (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		photo_id UUID NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		bounding_box JSONB NOT NULL,
		confidence_score DECIMAL(5,4) NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_detected_cyclists_photo_id ON detected_cyclists (photo_id);`,
	`CREATE TABLE IF NOT EXISTS plate_numbers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		detected_cyclist_id UUID NOT NULL UNIQUE REFERENCES detected_cyclists(id) ON DELETE CASCADE,
		number INTEGER NOT NULL,
		confidence_score DECIMAL(5,4),
		manually_corrected BOOLEAN NOT NULL DEFAULT FALSE,
		corrected_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_plate_numbers_number ON plate_numbers (number);`,
	`CREATE TABLE IF NOT EXISTS equipment_colors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		detected_cyclist_id UUID NOT NULL REFERENCES detected_cyclists(id) ON DELETE CASCADE,
		item_type VARCHAR(16) NOT NULL,
		color_name TEXT NOT NULL,
		color_hex VARCHAR(7) NOT NULL,
		density_percentage DECIMAL(5,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_equipment_colors_detected_cyclist_id ON equipment_colors (detected_cyclist_id);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_events_updated_at') THEN
			CREATE TRIGGER trg_events_updated_at
				BEFORE UPDATE ON events
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
