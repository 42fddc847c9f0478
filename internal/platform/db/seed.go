package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pendler/internal/platform/config"
)

type seedPosition struct {
	Name        string
	CycleLength int
}

// DHL depot positions the importer knows schedules for. The 15-week cycle is
// the standard rotation in the Wechselschicht plans; Technik runs a short
// 3-week rotation.
var defaultPositions = []seedPosition{
	{Name: "Paketsortierer", CycleLength: 15},
	{Name: "Paketzusteller", CycleLength: 15},
	{Name: "Verlader", CycleLength: 15},
	{Name: "Staplerfahrer", CycleLength: 15},
	{Name: "Technik", CycleLength: 3},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.RunSeed {
		return nil
	}
	for _, pos := range defaultPositions {
		if _, err := pool.Exec(ctx, `
      INSERT INTO positions (name, cycle_length)
      VALUES ($1, $2)
      ON CONFLICT (name) DO NOTHING
    `, pos.Name, pos.CycleLength); err != nil {
			return err
		}
	}
	return nil
}
