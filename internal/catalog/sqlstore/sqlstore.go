// Package sqlstore loads and seeds catalog reference tables through database/sql.
// It is shared by the SQLite and Postgres sources.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"zoohousing/pkg/domain"
)

// Schema creates the reference tables. Statements are portable across SQLite and Postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS species (
		name TEXT PRIMARY KEY,
		unit_size INTEGER NOT NULL CHECK (unit_size > 0),
		biomes TEXT NOT NULL,
		carnivore BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS enclosures (
		id INTEGER PRIMARY KEY,
		biome TEXT NOT NULL,
		total_capacity INTEGER NOT NULL CHECK (total_capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS occupants (
		enclosure_id INTEGER NOT NULL REFERENCES enclosures(id),
		species TEXT NOT NULL REFERENCES species(name),
		count INTEGER NOT NULL CHECK (count >= 0),
		PRIMARY KEY (enclosure_id, species)
	)`,
}

// biomeListSeparator separates species biomes in the species.biomes column.
const biomeListSeparator = ","

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// Question is the SQLite placeholder style.
func Question(int) string { return "?" }

// Dollar is the Postgres placeholder style.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// ApplySchema creates the reference tables when missing.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Load reads the reference tables into a validated catalog.
func Load(ctx context.Context, db *sql.DB) (*domain.Catalog, error) {
	species, err := loadSpecies(ctx, db)
	if err != nil {
		return nil, err
	}
	enclosures, err := loadEnclosures(ctx, db)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(species, enclosures)
}

func loadSpecies(ctx context.Context, db *sql.DB) ([]domain.Species, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, unit_size, biomes, carnivore FROM species ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select species: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.Species
	for rows.Next() {
		var (
			s      domain.Species
			biomes string
		)
		if err := rows.Scan(&s.Name, &s.UnitSize, &biomes, &s.Carnivore); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		var list []domain.Biome
		for _, b := range strings.Split(biomes, biomeListSeparator) {
			list = append(list, domain.Biome(b))
		}
		s.Biomes = domain.NewBiomeSet(list...)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate species: %w", err)
	}
	return out, nil
}

func loadEnclosures(ctx context.Context, db *sql.DB) ([]domain.Enclosure, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, biome, total_capacity FROM enclosures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select enclosures: %w", err)
	}
	type row struct {
		id, capacity int
		biome        string
	}
	var raws []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.biome, &r.capacity); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan enclosure: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate enclosures: %w", err)
	}
	_ = rows.Close()

	occupants, err := loadOccupants(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Enclosure, 0, len(raws))
	for _, r := range raws {
		out = append(out, domain.NewEnclosure(r.id, r.biome, r.capacity, occupants[r.id]))
	}
	return out, nil
}

func loadOccupants(ctx context.Context, db *sql.DB) (map[int]map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT enclosure_id, species, count FROM occupants`)
	if err != nil {
		return nil, fmt.Errorf("select occupants: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[int]map[string]int)
	for rows.Next() {
		var (
			id      int
			species string
			count   int
		)
		if err := rows.Scan(&id, &species, &count); err != nil {
			return nil, fmt.Errorf("scan occupant: %w", err)
		}
		if out[id] == nil {
			out[id] = make(map[string]int)
		}
		out[id][species] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupants: %w", err)
	}
	return out, nil
}

// Seed replaces the reference tables with the catalog contents in one transaction.
func Seed(ctx context.Context, db *sql.DB, c *domain.Catalog, ph Placeholder) (retErr error) {
	if err := ApplySchema(ctx, db); err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"occupants", "enclosures", "species"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	insertSpecies := fmt.Sprintf(`INSERT INTO species(name, unit_size, biomes, carnivore) VALUES(%s, %s, %s, %s)`, ph(1), ph(2), ph(3), ph(4))
	for _, s := range c.ListSpecies() {
		names := make([]string, 0, len(s.Biomes))
		for _, b := range s.Biomes.Sorted() {
			names = append(names, string(b))
		}
		if _, err := tx.ExecContext(ctx, insertSpecies, s.Name, s.UnitSize, strings.Join(names, biomeListSeparator), s.Carnivore); err != nil {
			return fmt.Errorf("insert species %s: %w", s.Name, err)
		}
	}
	insertEnclosure := fmt.Sprintf(`INSERT INTO enclosures(id, biome, total_capacity) VALUES(%s, %s, %s)`, ph(1), ph(2), ph(3))
	insertOccupant := fmt.Sprintf(`INSERT INTO occupants(enclosure_id, species, count) VALUES(%s, %s, %s)`, ph(1), ph(2), ph(3))
	for _, e := range c.ListEnclosures() {
		if _, err := tx.ExecContext(ctx, insertEnclosure, e.ID, e.BiomeLabel, e.TotalCapacity); err != nil {
			return fmt.Errorf("insert enclosure %d: %w", e.ID, err)
		}
		for _, name := range e.OccupantSpecies() {
			if _, err := tx.ExecContext(ctx, insertOccupant, e.ID, name, e.Occupants[name]); err != nil {
				return fmt.Errorf("insert occupant %s in %d: %w", name, e.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
