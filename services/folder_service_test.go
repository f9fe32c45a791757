package services

import (
	"net/http"
	"testing"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

func setupFolderTest(t *testing.T) (*db.GormDB, FolderService, db.FolderRepository) {
	t.Helper()
	gdb := newTestDB(t)
	folderRepo := db.NewFolderRepo(gdb)
	svc := NewFolderService(folderRepo, db.NewBookRepo(gdb))
	return gdb, svc, folderRepo
}

func TestSignupDefaultsShelvesAndFolders(t *testing.T) {
	gdb, svc, folderRepo := setupFolderTest(t)
	user := createTestUser(t, gdb, "reader", models.RoleUser)

	if err := folderRepo.InitUserShelves(user.ID); err != nil {
		t.Fatalf("InitUserShelves: %v", err)
	}
	if err := folderRepo.InitUserFolders(user.ID); err != nil {
		t.Fatalf("InitUserFolders: %v", err)
	}

	shelves, err := svc.GetUserShelves(user.ID)
	if err != nil {
		t.Fatalf("GetUserShelves: %v", err)
	}
	if len(shelves) != len(models.ShelfTypes) {
		t.Fatalf("expected %d shelves, got %d", len(models.ShelfTypes), len(shelves))
	}

	folders, err := svc.GetUserFolders(user.ID)
	if err != nil {
		t.Fatalf("GetUserFolders: %v", err)
	}
	if len(folders) != len(models.DefaultFolderNames) {
		t.Fatalf("expected %d folders, got %d", len(models.DefaultFolderNames), len(folders))
	}

	// initialization is idempotent
	if err := folderRepo.InitUserShelves(user.ID); err != nil {
		t.Fatalf("second InitUserShelves: %v", err)
	}
	shelves, _ = svc.GetUserShelves(user.ID)
	if len(shelves) != len(models.ShelfTypes) {
		t.Fatalf("re-init duplicated shelves: %d", len(shelves))
	}
}

func TestMoveBookToShelfDisconnectsPreviousShelf(t *testing.T) {
	gdb, svc, folderRepo := setupFolderTest(t)

	user := createTestUser(t, gdb, "reader", models.RoleUser)
	if err := folderRepo.InitUserShelves(user.ID); err != nil {
		t.Fatalf("InitUserShelves: %v", err)
	}
	book := createTestBook(t, gdb, "wandering book", user.ID)

	if apiErr := svc.MoveBookToShelf(user.ID, book.ID, models.ShelfReading); apiErr != nil {
		t.Fatalf("move to READING: %v", apiErr)
	}
	if apiErr := svc.MoveBookToShelf(user.ID, book.ID, models.ShelfFinished); apiErr != nil {
		t.Fatalf("move to FINISHED: %v", apiErr)
	}

	shelves, err := svc.GetUserShelves(user.ID)
	if err != nil {
		t.Fatalf("GetUserShelves: %v", err)
	}
	for _, shelf := range shelves {
		for _, b := range shelf.Books {
			if b.ID == book.ID && shelf.Type != models.ShelfFinished {
				t.Fatalf("book still on shelf %s after move", shelf.Type)
			}
		}
		if shelf.Type == models.ShelfFinished && len(shelf.Books) != 1 {
			t.Fatalf("expected the book on FINISHED, got %d books", len(shelf.Books))
		}
	}
}

func TestMoveBookToShelfMissingBook(t *testing.T) {
	gdb, svc, folderRepo := setupFolderTest(t)
	user := createTestUser(t, gdb, "reader", models.RoleUser)
	if err := folderRepo.InitUserShelves(user.ID); err != nil {
		t.Fatalf("InitUserShelves: %v", err)
	}

	apiErr := svc.MoveBookToShelf(user.ID, 9999, models.ShelfReading)
	if apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing book, got %v", apiErr)
	}
}

func TestCreateFolderRejectsDuplicateName(t *testing.T) {
	gdb, svc, _ := setupFolderTest(t)
	user := createTestUser(t, gdb, "reader", models.RoleUser)

	if _, apiErr := svc.CreateFolder(user.ID, "To re-read"); apiErr != nil {
		t.Fatalf("CreateFolder: %v", apiErr)
	}
	_, apiErr := svc.CreateFolder(user.ID, "To re-read")
	if apiErr == nil || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict for duplicate folder name, got %v", apiErr)
	}

	// a different user may reuse the name
	other := createTestUser(t, gdb, "other", models.RoleUser)
	if _, apiErr := svc.CreateFolder(other.ID, "To re-read"); apiErr != nil {
		t.Fatalf("CreateFolder for other user: %v", apiErr)
	}
}

func TestFolderBookMembership(t *testing.T) {
	gdb, svc, _ := setupFolderTest(t)

	user := createTestUser(t, gdb, "reader", models.RoleUser)
	book := createTestBook(t, gdb, "novel", user.ID)

	folder, apiErr := svc.CreateFolder(user.ID, "Sci-fi picks")
	if apiErr != nil {
		t.Fatalf("CreateFolder: %v", apiErr)
	}

	if apiErr := svc.AddBookToFolder(folder.ID, book.ID, user.ID); apiErr != nil {
		t.Fatalf("AddBookToFolder: %v", apiErr)
	}

	folders, err := svc.GetUserFolders(user.ID)
	if err != nil {
		t.Fatalf("GetUserFolders: %v", err)
	}
	var found bool
	for _, f := range folders {
		if f.ID == folder.ID && len(f.Books) == 1 && f.Books[0].ID == book.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("book not found in folder after add")
	}

	if apiErr := svc.RemoveBookFromFolder(folder.ID, book.ID, user.ID); apiErr != nil {
		t.Fatalf("RemoveBookFromFolder: %v", apiErr)
	}

	// a foreign folder id is a not-found, not someone else's folder
	intruder := createTestUser(t, gdb, "intruder", models.RoleUser)
	if apiErr := svc.AddBookToFolder(folder.ID, book.ID, intruder.ID); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 adding into a foreign folder, got %v", apiErr)
	}
}
