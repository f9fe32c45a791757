package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readhaven/readhaven/config"
	"github.com/readhaven/readhaven/models"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := Migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
	if err := SeedAdmin(g.DB, c.AdminEmail, c.AdminPassword); err != nil {
		log.Fatalf("unable to seed admin user: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	log.Printf("Connecting to postgres: host=%s db=%s", c.PostgresHost, c.PostgresDB)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{ID: uuid.New(), Name: models.RoleAdmin},
		{ID: uuid.New(), Name: models.RoleUser},
	}

	for _, role := range roles {
		if err := db.FirstOrCreate(&role, models.Role{Name: role.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}

func SeedGenres(db *gorm.DB) error {
	names := []string{
		"Fiction", "Non-fiction", "Fantasy", "Science Fiction", "Detective",
		"Romance", "History", "Biography", "Poetry", "Science", "Psychology",
		"Children", "Adventure", "Horror", "Classics",
	}

	for _, name := range names {
		genre := models.Genre{Name: name}
		if err := db.FirstOrCreate(&genre, models.Genre{Name: name}).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedAdmin guarantees one admin account exists so the chat module always
// has a counterpart for user conversations.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" {
		email = "admin@readhaven.io"
	}
	if password == "" {
		password = "changeme"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:           "Admin",
		Email:          email,
		HashedPassword: string(hashed),
		RoleID:         adminRole.ID,
	}
	return db.Create(&admin).Error
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Blacklist{},
		&models.Notification{},
		&models.UserNotification{},
		&models.Book{},
		&models.Genre{},
		&models.Bookmark{},
		&models.Comment{},
		&models.News{},
		&models.Folder{},
		&models.Bookshelf{},
		&models.Chat{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedRoles(db); err != nil {
		return fmt.Errorf("seeding roles error: %v", err)
	}

	if err := SeedGenres(db); err != nil {
		return fmt.Errorf("seeding genres error: %v", err)
	}

	return nil
}
