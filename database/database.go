package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	config "github.com/mbeleck/eduquiz/configs"
	"github.com/mbeleck/eduquiz/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Course{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizAttempt{},
		&models.Answer{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// At most one open attempt per (user, quiz). AutoMigrate cannot express a
	// partial unique index, so it is created directly.
	err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_open_attempt
		ON quiz_attempts (user_id, quiz_id) WHERE is_completed = false`).Error
	if err != nil {
		log.Fatalf("🔥 Failed to create open-attempt index: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		ID:       uuid.New(),
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

var defaultSubjects = []models.Subject{
	{Name: "Mathématiques", Icon: "fas fa-calculator", Color: "blue"},
	{Name: "Français", Icon: "fas fa-book-open", Color: "red"},
	{Name: "Anglais", Icon: "fas fa-globe", Color: "green"},
	{Name: "Histoire-Géographie", Icon: "fas fa-map", Color: "orange"},
	{Name: "Sciences Physiques", Icon: "fas fa-atom", Color: "purple"},
	{Name: "Sciences de la Vie et de la Terre", Icon: "fas fa-leaf", Color: "green"},
	{Name: "Philosophie", Icon: "fas fa-brain", Color: "indigo"},
	{Name: "Économie", Icon: "fas fa-chart-line", Color: "yellow"},
	{Name: "Informatique", Icon: "fas fa-laptop-code", Color: "cyan"},
	{Name: "Espagnol", Icon: "fas fa-language", Color: "red"},
	{Name: "Allemand", Icon: "fas fa-language", Color: "gray"},
}

func SeedSubjects() {
	created := 0
	for _, s := range defaultSubjects {
		subject := models.Subject{
			ID:    uuid.New(),
			Name:  s.Name,
			Slug:  slugify(s.Name),
			Icon:  s.Icon,
			Color: s.Color,
		}

		var count int64
		DB.Model(&models.Subject{}).Where("slug = ?", subject.Slug).Count(&count)
		if count > 0 {
			continue
		}
		if err := DB.Create(&subject).Error; err != nil {
			log.Printf("🔥 Failed to seed subject %s: %v", subject.Name, err)
			continue
		}
		created++
	}
	log.Printf("✅ Subjects seeded (%d created)", created)
}

var slugReplacer = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c", "î", "i", "ô", "o", " ", "-",
)

func slugify(name string) string {
	return strings.ToLower(slugReplacer.Replace(name))
}
