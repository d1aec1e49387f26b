package database

import (
	"fmt"
	"log"
	"reviewradar/internal/config"
	"reviewradar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDatabase(cfg *config.Config) error {
	var err error

	dsn := cfg.GetDSN()

	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connected successfully")

	return AutoMigrate()
}

func AutoMigrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Target{},
		&models.CrawlRun{},
		&models.SolveAttempt{},
		&models.Review{},
		&models.PricingPlan{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database migration completed")

	return SeedDefaultData()
}

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@reviewradar.local"
	defaultAdminPassword = "admin123"
)

// demoTargets returns the seed targets a fresh install gets, owned by the
// given user.
func demoTargets(ownerID uint) []models.Target {
	return []models.Target{
		{
			Name:        "Capterra style demo",
			URL:         "https://reviews.example.com/product/demo",
			SiteProfile: "generic",
			Status:      1,
			UserID:      ownerID,
		},
	}
}

func SeedDefaultData() error {
	// Seed the bootstrap admin account first so the demo targets have a
	// real owner.
	var admin models.User
	err := DB.Where("username = ?", defaultAdminUsername).First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("failed to hash admin password: %w", hashErr)
		}
		admin = models.User{
			Username: defaultAdminUsername,
			Email:    defaultAdminEmail,
			Password: string(hash),
			Status:   1,
		}
		if err := DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Println("Seeded default admin account")
	} else if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	for _, target := range demoTargets(admin.ID) {
		var existing models.Target
		if err := DB.Where("name = ?", target.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := DB.Create(&target).Error; err != nil {
					return fmt.Errorf("failed to create target %s: %w", target.Name, err)
				}
			}
		}
	}

	log.Println("Default data seeded successfully")
	return nil
}
