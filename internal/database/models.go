package database

import (
	"time"

	"github.com/google/uuid"
)

// ImportBatch records one dataset import
type ImportBatch struct {
	ID           string    `json:"id" db:"id"`
	Source       string    `json:"source" db:"source"`
	RowsRead     int       `json:"rows_read" db:"rows_read"`
	RowsSkipped  int       `json:"rows_skipped" db:"rows_skipped"`
	RowsImported int       `json:"rows_imported" db:"rows_imported"`
	ImportedAt   time.Time `json:"imported_at" db:"imported_at"`
}

// NewImportBatch creates a batch record with a fresh id
func NewImportBatch(source string, rowsRead, rowsSkipped, rowsImported int) *ImportBatch {
	return &ImportBatch{
		ID:           uuid.New().String(),
		Source:       source,
		RowsRead:     rowsRead,
		RowsSkipped:  rowsSkipped,
		RowsImported: rowsImported,
		ImportedAt:   time.Now().UTC(),
	}
}
