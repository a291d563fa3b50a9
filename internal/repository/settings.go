package repository

import (
	"context"
	"fmt"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// ListSettings returns every stored setting
func (r *PostgresRepository) ListSettings(ctx context.Context) ([]model.Setting, error) {
	settings := []model.Setting{}
	if err := r.db.SelectContext(ctx, &settings, `SELECT key, value, updated_at FROM settings ORDER BY key`); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpsertSetting stores a setting value
func (r *PostgresRepository) UpsertSetting(ctx context.Context, s *model.Setting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.Key, s.Value, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}
