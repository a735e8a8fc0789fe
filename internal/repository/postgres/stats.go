package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM appointments) AS total_appointments,
			(SELECT COUNT(*) FROM appointments WHERE status = 'pending') AS pending,
			(SELECT COUNT(*) FROM appointments WHERE status = 'confirmed') AS confirmed,
			(SELECT COUNT(*) FROM doctors) AS total_doctors,
			(SELECT COUNT(*) FROM patients) AS total_patients
	`
	var stats model.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}
