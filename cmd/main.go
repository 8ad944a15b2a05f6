package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/cmd/api"
	"github.com/nishirajsingh/AyurSutra/cmd/models"
	"github.com/nishirajsingh/AyurSutra/db"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "seed":
			runSeed()
			return
		case "clear-db":
			runDatabaseClear()
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer()
}

func runMigrations() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {
	migrations := map[interface{}]string{
		&models.User{}:         "User",
		&models.Therapy{}:      "Therapy",
		&models.Booking{}:      "Booking",
		&models.Notification{}: "Notification",
		&models.Device{}:       "Device",
	}

	log.Println("Starting database migrations...")
	for model, name := range migrations {
		log.Printf("Migrating %s table...", name)
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", name, err)
		}
		log.Printf("%s migration successful", name)
	}

	// A practitioner's slot may only be held by one live booking at a
	// time. Cancelled and completed bookings fall outside the index, so
	// their slots can be rebooked.
	slotIndex := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_live_slot
		ON bookings (practitioner_id, date, time_slot)
		WHERE status IN ('pending', 'confirmed') AND deleted_at IS NULL`
	if err := DB.Exec(slotIndex).Error; err != nil {
		return fmt.Errorf("error creating slot uniqueness index: %w", err)
	}
	log.Println("Slot uniqueness index created")

	return nil
}

// runSeed loads the default therapy catalog. Existing rows are left
// alone so reseeding is safe.
func runSeed() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
	}()

	log.Println("Seeding therapy catalog...")
	for _, therapy := range models.DefaultTherapies() {
		var existing models.Therapy
		if err := DB.Where("name = ?", therapy.Name).First(&existing).Error; err == nil {
			log.Printf("Therapy %q already present, skipping", therapy.Name)
			continue
		}
		if err := DB.Create(&therapy).Error; err != nil {
			log.Fatalf("Error seeding therapy %q: %v", therapy.Name, err)
		}
		log.Printf("Seeded therapy %q", therapy.Name)
	}
	log.Println("Seeding completed")
}

func startServer() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	server := api.NewApiServer(":"+port, DB)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", port)

	<-quit
	log.Println("Shutting down server...")
}

func runDatabaseClear() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	tables := []interface{}{
		&models.Device{},
		&models.Notification{},
		&models.Booking{},
		&models.Therapy{},
		&models.User{},
	}

	log.Println("Dropping tables...")
	for _, table := range tables {
		if err := DB.Migrator().DropTable(table); err != nil {
			log.Printf("Warning dropping table %T: %v", table, err)
		} else {
			log.Printf("Table %T dropped", table)
		}
	}

	log.Println("Database cleared successfully")
}
