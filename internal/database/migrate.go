package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/models"
)

// SchemaMigration records an applied migration step.
type SchemaMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

type migration struct {
	version int
	name    string
	run     func(tx *gorm.DB) error
}

// Each step runs at most once; the applied version is tracked in
// schema_migrations so startup never re-attempts or guesses DDL.
var migrations = []migration{
	{
		version: 1,
		name:    "create identity and course tables",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{})
		},
	},
	{
		version: 2,
		name:    "create coursework tables",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Assignment{}, &models.Note{}, &models.Exam{})
		},
	},
	{
		version: 3,
		name:    "create submission tables",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Submission{}, &models.ExamSubmission{})
		},
	},
	{
		version: 4,
		name:    "create points table",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.PointsAccount{})
		},
	},
}

// Migrate applies any pending schema migrations in version order. It is
// idempotent and safe to run on every startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}

	var current int
	row := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Row()
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, step := range migrations {
		if step.version <= current {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.run(tx); err != nil {
				return err
			}
			record := SchemaMigration{Version: step.version, Name: step.name, AppliedAt: time.Now().UTC()}
			return tx.Create(&record).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", step.version, step.name, err)
		}
	}

	return nil
}
