package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pdfshelf/pdfshelf-backend/models"
)

var DB *gorm.DB

func ConnectToDatabase() {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️  Warning: No .env file found. Using system environment variables.")
		}
	}
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL is not set in environment variables")
	}
	var err error

	DB, err = gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Pdf{},
		&models.SlugHistory{},
		&models.Rating{},
		&models.Favorite{},
		&models.DmcaRequest{},
		&models.SeoSetting{},
		&models.SiteSetting{},
		&models.DownloadEvent{},
	); err != nil {
		log.Fatalf("❌ Failed to migrate database schema: %v", err)
	}

	seedSettings()
	seedAdmin()
	log.Println("✅ Database connected and migrated successfully")
}

// seedSettings creates the single settings rows on first boot. Defaults come
// from the environment, not from literals in the schema.
func seedSettings() {
	var count int64
	DB.Model(&models.SeoSetting{}).Count(&count)
	if count == 0 {
		robots := os.Getenv("ROBOTS_TXT")
		if robots == "" {
			if path := os.Getenv("ROBOTS_TXT_FILE"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					log.Fatalf("❌ Failed to read ROBOTS_TXT_FILE: %v", err)
				}
				robots = string(data)
			}
		}
		seo := models.SeoSetting{
			SiteTitle:     os.Getenv("SITE_TITLE"),
			RobotsTxt:     robots,
			CanonicalHost: os.Getenv("CANONICAL_HOST"),
		}
		if err := DB.Create(&seo).Error; err != nil {
			log.Printf("Error seeding SEO settings: %v", err)
		}
	}

	DB.Model(&models.SiteSetting{}).Count(&count)
	if count == 0 {
		site := models.SiteSetting{
			SiteName:         os.Getenv("SITE_TITLE"),
			ContactEmail:     os.Getenv("CONTACT_EMAIL"),
			MaxUploadSizeMB:  50,
			DocumentsPerPage: 20,
		}
		if err := DB.Create(&site).Error; err != nil {
			log.Printf("Error seeding site settings: %v", err)
		}
	}
}

// seedAdmin bootstraps the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash admin password: %v", err)
	}
	admin := models.User{Email: email, PasswordHash: string(hash), IsAdmin: true}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
	}
}
