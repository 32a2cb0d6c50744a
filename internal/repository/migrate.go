package repository

import "gorm.io/gorm"

// AutoMigrate creates the storage schema. Used by the seed binary and tests;
// production deployments run SQL migrations that additionally install the
// active-booking exclusion index backing the no-overlap constraint.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&fieldModel{},
		&bookingModel{},
		&paymentModel{},
	)
}
