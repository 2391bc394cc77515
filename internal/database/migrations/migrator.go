package migrations

import (
	"fmt"
	"log/slog"
	"sort"

	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

var migrations = make(map[string]Migration)

// Register adds a new migration to the registry. IDs sort lexically, so they
// carry a zero padded sequence prefix.
func Register(id string, up, down func(*gorm.DB) error) {
	if _, exists := migrations[id]; exists {
		panic(fmt.Sprintf("migration %s registered twice", id))
	}
	migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// IDs returns the registered migration IDs in execution order
func IDs() []string {
	ids := make([]string, 0, len(migrations))
	for id := range migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RunMigrations executes all pending migrations, each in its own transaction
func RunMigrations(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	executedMap := make(map[string]bool, len(executed))
	for _, m := range executed {
		executedMap[m.ID] = true
	}

	for _, id := range IDs() {
		if executedMap[id] {
			continue
		}
		migration := migrations[id]
		log.Info("Running migration", "id", id)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: id}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		log.Info("Completed migration", "id", id)
	}

	return nil
}

// Rollback reverts the most recently executed migration
func Rollback(db *gorm.DB, log *slog.Logger) error {
	var last MigrationRecord
	if err := db.Order("id desc").First(&last).Error; err != nil {
		return fmt.Errorf("failed to find last migration: %w", err)
	}
	migration, ok := migrations[last.ID]
	if !ok || migration.Down == nil {
		return fmt.Errorf("migration %s cannot be rolled back", last.ID)
	}
	log.Info("Rolling back migration", "id", last.ID)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&MigrationRecord{ID: last.ID}).Error
	})
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}
