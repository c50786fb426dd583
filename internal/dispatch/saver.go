package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/internal/longform"
)

// StoreSaver implements longform.RowSaver against the Postgres store.
type StoreSaver struct {
	Store *db.Store
}

func (s *StoreSaver) SaveRows(ctx context.Context, projectID string, rows []longform.Row) error {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	return s.Store.SaveRows(ctx, id, rows)
}
