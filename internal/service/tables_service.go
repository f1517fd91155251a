package service

import (
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"context"
)

type Health struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}

// TablesService reports whether the schema is reachable.
type TablesService interface {
	Health(ctx context.Context) (*Health, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) Health(ctx context.Context) (*Health, error) {
	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &Health{Status: "ok", Tables: countTables}, nil
}
