package main

import (
	"flag"
	"log"

	"go-bevdistro/internal/model"
	"go-bevdistro/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "admin", "username of the account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find User
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *username, err)
	}

	// 4. Hash new password and rotate the session version
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	user.TokenVersion = uuid.New().String()

	// 5. Update
	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":      user.Password,
		"token_version": user.TokenVersion,
	}).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset. Existing sessions were logged out.", *username)
}
