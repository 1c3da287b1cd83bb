package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"cinebook/internal/database"
	"cinebook/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "cinebook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first, then users)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM receipts")
	db.Exec("DELETE FROM payment_orders")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@cinebook.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@cinebook.local / admin123")

	demoEmails := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	demoNames := []string{"Alice", "Bob", "Carol"}
	for i, email := range demoEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
		user := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			Name:         demoNames[i],
		}
		db.Create(&user)
		log.Println(fmt.Sprintf("User created: %s / demo123", email))
	}

	log.Println("Seed complete")
}
