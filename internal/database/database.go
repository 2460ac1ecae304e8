package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the pure-Go "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"

	"stayease/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema and the storage-level guards the allocator
// relies on. The partial unique index is the second line of defence behind
// the conditional bed update: two bookings in a non-terminal state can never
// reference the same bed, whatever the application layer does.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Room{},
		&domain.Bed{},
		&domain.Booking{},
	); err != nil {
		return err
	}

	// Same syntax on PostgreSQL and SQLite.
	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_bed
ON bookings (bed_id)
WHERE status IN ('pending', 'confirmed', 'checked_in')
`).Error
}
