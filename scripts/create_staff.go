// scripts/create_staff.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/config"
	"github.com/omarhassan900/wattar-academy/database"
	"github.com/omarhassan900/wattar-academy/models"
)

func main() {
	username := flag.String("username", "", "login username")
	password := flag.String("password", "", "initial password")
	name := flag.String("name", "", "display name")
	role := flag.String("role", "reception", "manager | reception | trainer")
	flag.Parse()

	if *username == "" || *password == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: create_staff -username u -password p -name n [-role r]")
		os.Exit(2)
	}
	switch *role {
	case "manager", "reception", "trainer":
	default:
		log.Fatalf("unknown role %q", *role)
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	uname := strings.ToLower(strings.TrimSpace(*username))

	var existing models.User
	if err := db.Where("username = ?", uname).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("user already exists with username:", uname)
		os.Exit(0)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := models.User{
		Username:     uname,
		PasswordHash: string(hashed),
		FullName:     *name,
		Role:         *role,
		Status:       "active",
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert user: %v", err)
	}

	fmt.Println("staff user created")
	fmt.Println("   Username:", uname)
	fmt.Println("   Role:    ", *role)
}
