package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

// settingsRowID pins the single site settings row.
const settingsRowID = 1

// SettingsRepository implements port.SettingsRepository using PostgreSQL.
type SettingsRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSettingsRepository wires a PostgreSQL-backed settings repository.
func NewSettingsRepository(exec pgExecutor) *SettingsRepository {
	repo := &SettingsRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Get returns the current site settings, falling back to defaults when
// the row has not been created yet.
func (r *SettingsRepository) Get(ctx context.Context) (domain.SiteSettings, error) {
	stmt, args, err := r.builder.
		Select("registration_enabled", "oauth_enabled", "default_locale", "updated_at").
		From("app.site_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return domain.SiteSettings{}, fmt.Errorf("build select settings sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var settings domain.SiteSettings
	if err := row.Scan(
		&settings.RegistrationEnabled,
		&settings.OAuthEnabled,
		&settings.DefaultLocale,
		&settings.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return domain.DefaultSiteSettings(), nil
		}
		return domain.SiteSettings{}, fmt.Errorf("scan settings: %w", err)
	}

	return settings, nil
}

// Update upserts the settings row applying the non-nil fields and returns
// the resulting state.
func (r *SettingsRepository) Update(ctx context.Context, update port.SettingsUpdate) (domain.SiteSettings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return domain.SiteSettings{}, err
	}

	if update.RegistrationEnabled != nil {
		current.RegistrationEnabled = *update.RegistrationEnabled
	}
	if update.OAuthEnabled != nil {
		current.OAuthEnabled = *update.OAuthEnabled
	}
	if update.DefaultLocale != nil {
		current.DefaultLocale = *update.DefaultLocale
	}
	current.UpdatedAt = time.Now().UTC()

	stmt, args, err := r.builder.Insert("app.site_settings").
		Columns("id", "registration_enabled", "oauth_enabled", "default_locale", "updated_at").
		Values(settingsRowID, current.RegistrationEnabled, current.OAuthEnabled, current.DefaultLocale, current.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			registration_enabled = EXCLUDED.registration_enabled,
			oauth_enabled = EXCLUDED.oauth_enabled,
			default_locale = EXCLUDED.default_locale,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return domain.SiteSettings{}, fmt.Errorf("build upsert settings sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return domain.SiteSettings{}, fmt.Errorf("upsert settings: %w", err)
	}

	return current, nil
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)
