package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// DatasetService loads CSV files into the store and serves scoped reads
type DatasetService struct {
	repo *Repository
}

// NewDatasetService creates a new dataset service
func NewDatasetService(repo *Repository) *DatasetService {
	return &DatasetService{repo: repo}
}

// ImportFile parses the CSV at path and upserts its rows
func (s *DatasetService) ImportFile(ctx context.Context, path string) (*ImportBatch, error) {
	deliveries, report, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	batch := NewImportBatch(path, report.Rows, report.Skipped, len(deliveries))
	if err := s.repo.ImportDeliveries(ctx, deliveries, batch); err != nil {
		return nil, err
	}

	slog.Debug("Dataset imported",
		"batch_id", batch.ID,
		"source", path,
		"rows_read", report.Rows,
		"rows_skipped", report.Skipped,
		"rows_imported", batch.RowsImported)

	return batch, nil
}

// SeedIfEmpty imports path only when the store holds no deliveries. It
// returns nil when nothing was imported.
func (s *DatasetService) SeedIfEmpty(ctx context.Context, path string) (*ImportBatch, error) {
	count, err := s.repo.CountDeliveries(ctx, types.Scope{})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		slog.Debug("Dataset store already seeded", "deliveries", count)
		return nil, nil
	}
	return s.ImportFile(ctx, path)
}

// Deliveries returns the deliveries inside scope
func (s *DatasetService) Deliveries(ctx context.Context, scope types.Scope) ([]types.Delivery, error) {
	return s.repo.ListDeliveries(ctx, scope)
}

// LatestImport returns the most recent import batch, if any
func (s *DatasetService) LatestImport(ctx context.Context) (*ImportBatch, error) {
	return s.repo.LatestImport(ctx)
}
