package database

import (
	"github.com/rentwheels/rentwheels-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.Booking{},
		&models.Promo{},
		&models.Feedback{},
	)
	if err != nil {
		return err
	}

	// The exclusion constraint is the authoritative no-double-booking
	// guarantee: Postgres rejects any insert or update that would give one
	// car two active bookings with overlapping [start, end) ranges, even
	// when two transactions race. Application-level checks are advisory.
	if db.Migrator().HasTable(&models.Booking{}) {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap`)
		if err := db.Exec(`
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				car_id WITH =,
				tstzrange(start_date, end_date, '[)') WITH &&
			)
			WHERE (status IN ('pending', 'confirmed') AND deleted_at IS NULL)
		`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Car{}) {
		db.Exec(`ALTER TABLE cars DROP CONSTRAINT IF EXISTS cars_availability_check`)
		if err := db.Exec(`ALTER TABLE cars ADD CONSTRAINT cars_availability_check CHECK (availability IN ('available', 'unavailable'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
