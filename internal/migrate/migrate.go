// Package migrate moves a JSON-file task store into a SQLite database.
package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskman/internal/repository/jsonfile"
	"taskman/internal/repository/sqlite"
)

// Result reports what a migration did.
type Result struct {
	Tasks  int
	NextID int
}

// JSONToSQLite reads the JSON store at jsonPath and replaces the
// contents of the SQLite database at sqlitePath with it. The JSON file
// is left untouched; running the migration twice is harmless.
func JSONToSQLite(ctx context.Context, jsonPath, sqlitePath string, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	src, err := jsonfile.NewTaskRepository(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON store: %w", err)
	}
	defer src.Close()

	tasks, nextID, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON store: %w", err)
	}

	db, err := sqlite.NewConnection(sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	dst := sqlite.NewTaskRepository(db)
	defer dst.Close()

	if nextID < 1 {
		nextID = 1
		for _, t := range tasks {
			if t.ID >= nextID {
				nextID = t.ID + 1
			}
		}
	}

	if err := dst.Save(ctx, tasks, nextID); err != nil {
		return nil, fmt.Errorf("failed to write SQLite database: %w", err)
	}

	log.Info("migration complete",
		zap.String("from", jsonPath),
		zap.String("to", sqlitePath),
		zap.Int("tasks", len(tasks)),
		zap.Int("nextId", nextID),
	)
	return &Result{Tasks: len(tasks), NextID: nextID}, nil
}
