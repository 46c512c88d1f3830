package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/omarhassan900/wattar-academy/academy"
	"github.com/omarhassan900/wattar-academy/models"
)

// schemaMigration tracks which migration steps have been applied, so the
// registry below can run at every boot without re-applying anything.
type schemaMigration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	Name string
	Run  func(db *gorm.DB) error
}

// Ordered migration registry. Append-only: new schema or seed work gets a
// new numbered entry, never an edit of an applied one.
var migrations = []migration{
	{Name: "0001_create_schema", Run: createSchema},
	{Name: "0002_seed_sessions", Run: seedSessions},
	{Name: "0003_seed_cash_categories", Run: seedCashCategories},
	{Name: "0004_seed_default_admin", Run: seedDefaultAdmin},
}

// Migrate applies all pending migrations in order. Safe to call at every
// process start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, m := range migrations {
		var n int64
		if err := db.Model(&schemaMigration{}).Where("name = ?", m.Name).Count(&n).Error; err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		if n > 0 {
			continue
		}
		if err := m.Run(db); err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		rec := schemaMigration{Name: m.Name, AppliedAt: time.Now().UTC()}
		if err := db.Create(&rec).Error; err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		log.Printf("[migrate] applied %s", m.Name)
	}
	return nil
}

func createSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Trainer{},
		&models.Class{},
		&models.StudentClass{},
		&models.Session{},
		&models.Attendance{},
		&models.CashTransaction{},
		&models.CashCategory{},
	)
}

// Each level gets its four fixed sessions up front; the attendance model
// never creates them lazily.
func seedSessions(db *gorm.DB) error {
	for _, level := range academy.Levels {
		for n := 1; n <= academy.SessionsPerLevel; n++ {
			sess := models.Session{
				Level:         level,
				SessionNumber: n,
				SessionName:   fmt.Sprintf("%s - Session %d", level, n),
				Description:   fmt.Sprintf("Session %d for %s students", n, level),
			}
			err := db.Where("level = ? AND session_number = ?", level, n).
				FirstOrCreate(&sess).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedCashCategories(db *gorm.DB) error {
	categories := []models.CashCategory{
		{Code: "C", Name: "Cleaning", Type: "expense"},
		{Code: "T", Name: "Trainers", Type: "expense"},
		{Code: "R", Name: "Development & Repairing", Type: "expense"},
		{Code: "AR", Name: "Academy Rent", Type: "expense"},
		{Code: "S", Name: "Salaries", Type: "expense"},
		{Code: "CA", Name: "Manager Cash", Type: "expense"},
		{Code: "B", Name: "Buffet", Type: "expense"},
		{Code: "E", Name: "Electricity", Type: "expense"},
		{Code: "ST", Name: "Marketing Commission", Type: "expense"},
		{Code: "P", Name: "Piano", Type: "income"},
		{Code: "V", Name: "Violin", Type: "income"},
		{Code: "G", Name: "Guitar", Type: "income"},
		{Code: "VO", Name: "Vocal", Type: "income"},
		{Code: "O", Name: "Oud", Type: "income"},
		{Code: "D", Name: "Daraboka", Type: "income"},
		{Code: "DR", Name: "Drums", Type: "income"},
		{Code: "SI", Name: "Instrument Sell", Type: "income"},
		{Code: "A", Name: "Art", Type: "income"},
		{Code: "BA", Name: "Watar Band", Type: "income"},
	}
	for _, c := range categories {
		c.IsActive = true
		if err := db.Where("code = ?", c.Code).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDefaultAdmin(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		FullName:     "System Administrator",
		Role:         "manager",
		Status:       "active",
	}
	return db.Create(&admin).Error
}
