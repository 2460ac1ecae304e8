package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"stayease/internal/database"
	"stayease/internal/domain"
)

func main() {
	db, err := database.Connect("stayease.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// Clean old data in FK-safe order.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM beds")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "owner@stayease.in",
		PasswordHash: string(ownerHash),
		FullName:     "Priya Sharma",
		Phone:        "+91 98100 12345",
		Role:         domain.RoleOwner,
	}
	if err := db.Create(&owner).Error; err != nil {
		log.Fatal(err)
	}

	tenants := make([]domain.User, 0, 2)
	for i, name := range []string{"Arjun Mehta", "Sneha Rao"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("tenant123"), bcrypt.DefaultCost)
		t := domain.User{
			Email:        fmt.Sprintf("tenant%d@stayease.in", i+1),
			PasswordHash: string(hash),
			FullName:     name,
			Role:         domain.RoleTenant,
		}
		if err := db.Create(&t).Error; err != nil {
			log.Fatal(err)
		}
		tenants = append(tenants, t)
	}

	log.Println("Creating property...")
	property := domain.Property{
		OwnerID:          owner.ID,
		Name:             "Sunrise PG for Professionals",
		Description:      "Fully furnished shared housing near the metro station.",
		PropertyType:     domain.PropertyPG,
		GenderPreference: domain.GenderAny,
		AddressLine1:     "42, MG Road",
		City:             "Bengaluru",
		State:            "Karnataka",
		Pincode:          "560001",
		SecurityDeposit:  15000,
		NoticePeriodDays: 30,
		IsActive:         true,
	}
	if err := db.Create(&property).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("Creating rooms and beds...")
	roomSpecs := []struct {
		number   string
		roomType domain.RoomType
		floor    int
		beds     int
		rent     float64
	}{
		{"101", domain.RoomDouble, 1, 2, 9500},
		{"102", domain.RoomTriple, 1, 3, 8000},
		{"201", domain.RoomSingle, 2, 1, 14000},
	}

	for _, spec := range roomSpecs {
		room := domain.Room{
			PropertyID:  property.ID,
			RoomNumber:  spec.number,
			RoomType:    spec.roomType,
			FloorNumber: spec.floor,
			TotalBeds:   spec.beds,
			RentPerBed:  spec.rent,
			IsActive:    true,
		}
		if err := db.Create(&room).Error; err != nil {
			log.Fatal(err)
		}

		for i := 1; i <= spec.beds; i++ {
			bed := domain.Bed{
				RoomID:    room.ID,
				BedNumber: fmt.Sprintf("B%d", i),
				Status:    domain.BedAvailable,
			}
			if err := db.Create(&bed).Error; err != nil {
				log.Fatal(err)
			}
		}

		db.Model(&domain.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
			"total_beds":     spec.beds,
			"available_beds": spec.beds,
		})
	}

	db.Model(&domain.Property{}).Where("id = ?", property.ID).Updates(map[string]interface{}{
		"total_rooms":    3,
		"total_beds":     6,
		"available_beds": 6,
	})

	log.Println("Seed complete.")
	log.Println("  owner@stayease.in / owner123")
	log.Println("  tenant1@stayease.in, tenant2@stayease.in / tenant123")
}
