package repository

import (
	"gorm.io/gorm"

	"stayease/internal/domain"
)

// RecomputeRoom and RecomputeProperty are the only writers of the derived
// room/property counters. Both are plain recomputations over child rows, so
// re-running them is always safe. Callers pass the transaction handle of the
// mutation that made the counters stale; the recompute commits or rolls back
// with it.

func RecomputeRoom(tx *gorm.DB, roomID int64) error {
	return tx.Exec(`
UPDATE rooms SET
	total_beds = (SELECT COUNT(*) FROM beds WHERE beds.room_id = rooms.id),
	available_beds = (SELECT COUNT(*) FROM beds WHERE beds.room_id = rooms.id AND beds.status = ?)
WHERE id = ?
`, string(domain.BedAvailable), roomID).Error
}

func RecomputeProperty(tx *gorm.DB, propertyID int64) error {
	return tx.Exec(`
UPDATE properties SET
	total_rooms = (SELECT COUNT(*) FROM rooms WHERE rooms.property_id = properties.id),
	total_beds = (SELECT COALESCE(SUM(rooms.total_beds), 0) FROM rooms WHERE rooms.property_id = properties.id),
	available_beds = (SELECT COALESCE(SUM(rooms.available_beds), 0) FROM rooms WHERE rooms.property_id = properties.id)
WHERE id = ?
`, propertyID).Error
}
