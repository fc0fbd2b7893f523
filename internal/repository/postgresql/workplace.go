package postgresql

import (
	"context"
	"errors"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workplaceRepositoryImpl struct {
	db *database.DB
}

// GetByID implements workplace.WorkplaceRepository.
func (r *workplaceRepositoryImpl) GetByID(ctx context.Context, id string) (workplace.Workplace, error) {
	q := GetQuerier(ctx, r.db)

	var w workplace.Workplace
	err := q.QueryRow(ctx, `SELECT id, name FROM workplaces WHERE id = $1`, id).Scan(&w.ID, &w.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
		}
		return workplace.Workplace{}, err
	}
	return w, nil
}

// List implements workplace.WorkplaceRepository.
func (r *workplaceRepositoryImpl) List(ctx context.Context) ([]workplace.Workplace, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM workplaces ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workplaces []workplace.Workplace
	for rows.Next() {
		var w workplace.Workplace
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, err
		}
		workplaces = append(workplaces, w)
	}
	return workplaces, rows.Err()
}

func NewWorkplaceRepository(db *database.DB) workplace.WorkplaceRepository {
	return &workplaceRepositoryImpl{db: db}
}
