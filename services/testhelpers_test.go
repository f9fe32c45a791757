package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory database with the full schema and seeds.
// Each call gets its own named shared-cache database so the connection pool
// always sees the same data.
func newTestDB(t *testing.T) *db.GormDB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return &db.GormDB{DB: gormDB}
}

// createTestUser inserts a user with the named role and returns it.
func createTestUser(t *testing.T, gdb *db.GormDB, name, roleName string) *models.User {
	t.Helper()

	var role models.Role
	if err := gdb.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("finding role %s: %v", roleName, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &models.User{
		Name:           name,
		Email:          fmt.Sprintf("%s@example.com", name),
		HashedPassword: string(hashed),
		RoleID:         role.ID,
	}
	if err := gdb.DB.Create(user).Error; err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	if err := gdb.DB.Preload("Role").First(user, user.ID).Error; err != nil {
		t.Fatalf("reloading user %s: %v", name, err)
	}
	return user
}

// createTestBook inserts a book owned by the user.
func createTestBook(t *testing.T, gdb *db.GormDB, title string, ownerID uint) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:  title,
		Author: "Test Author",
		UserID: ownerID,
	}
	if err := gdb.DB.Create(book).Error; err != nil {
		t.Fatalf("creating book %s: %v", title, err)
	}
	return book
}
