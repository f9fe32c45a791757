package services

import (
	"net/http"
	"testing"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

func setupBookmarkTest(t *testing.T) (*db.GormDB, BookmarkService) {
	t.Helper()
	gdb := newTestDB(t)
	svc := NewBookmarkService(db.NewBookmarkRepo(gdb), db.NewBookRepo(gdb))
	return gdb, svc
}

func TestCreateBookmarkAppliesDefaultColor(t *testing.T) {
	gdb, svc := setupBookmarkTest(t)

	user := createTestUser(t, gdb, "reader", models.RoleUser)
	book := createTestBook(t, gdb, "novel", user.ID)

	bookmark, apiErr := svc.CreateBookmark(&models.CreateBookmarkRequest{
		BookID:     book.ID,
		PageNumber: 42,
		Label:      "plot twist",
	}, user.ID)
	if apiErr != nil {
		t.Fatalf("CreateBookmark: %v", apiErr)
	}
	if bookmark.Color != models.DefaultBookmarkColor {
		t.Fatalf("expected default color %q, got %q", models.DefaultBookmarkColor, bookmark.Color)
	}
}

func TestCreateBookmarkRejectsDuplicatePage(t *testing.T) {
	gdb, svc := setupBookmarkTest(t)

	user := createTestUser(t, gdb, "reader", models.RoleUser)
	other := createTestUser(t, gdb, "other", models.RoleUser)
	book := createTestBook(t, gdb, "novel", user.ID)

	req := &models.CreateBookmarkRequest{BookID: book.ID, PageNumber: 7}
	if _, apiErr := svc.CreateBookmark(req, user.ID); apiErr != nil {
		t.Fatalf("first CreateBookmark: %v", apiErr)
	}

	_, apiErr := svc.CreateBookmark(req, user.ID)
	if apiErr == nil || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict for duplicate page, got %v", apiErr)
	}

	// the same page is free for a different user
	if _, apiErr := svc.CreateBookmark(req, other.ID); apiErr != nil {
		t.Fatalf("CreateBookmark for other user: %v", apiErr)
	}
}

func TestCreateBookmarkRequiresExistingBook(t *testing.T) {
	gdb, svc := setupBookmarkTest(t)
	user := createTestUser(t, gdb, "reader", models.RoleUser)

	_, apiErr := svc.CreateBookmark(&models.CreateBookmarkRequest{
		BookID:     9999,
		PageNumber: 1,
	}, user.ID)
	if apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing book, got %v", apiErr)
	}
}

func TestUpdateBookmarkGuardsPageCollision(t *testing.T) {
	gdb, svc := setupBookmarkTest(t)

	user := createTestUser(t, gdb, "reader", models.RoleUser)
	book := createTestBook(t, gdb, "novel", user.ID)

	first, apiErr := svc.CreateBookmark(&models.CreateBookmarkRequest{BookID: book.ID, PageNumber: 5}, user.ID)
	if apiErr != nil {
		t.Fatalf("CreateBookmark: %v", apiErr)
	}
	if _, apiErr := svc.CreateBookmark(&models.CreateBookmarkRequest{BookID: book.ID, PageNumber: 9}, user.ID); apiErr != nil {
		t.Fatalf("CreateBookmark: %v", apiErr)
	}

	_, apiErr = svc.UpdateBookmark(first.ID, &models.UpdateBookmarkRequest{PageNumber: 9}, user.ID)
	if apiErr == nil || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict moving onto an occupied page, got %v", apiErr)
	}

	updated, apiErr := svc.UpdateBookmark(first.ID, &models.UpdateBookmarkRequest{PageNumber: 12, Label: "moved"}, user.ID)
	if apiErr != nil {
		t.Fatalf("UpdateBookmark: %v", apiErr)
	}
	if updated.PageNumber != 12 || updated.Label != "moved" {
		t.Fatalf("unexpected bookmark after update: %+v", updated)
	}
}

func TestBookmarkOwnership(t *testing.T) {
	gdb, svc := setupBookmarkTest(t)

	owner := createTestUser(t, gdb, "owner", models.RoleUser)
	intruder := createTestUser(t, gdb, "intruder", models.RoleUser)
	book := createTestBook(t, gdb, "novel", owner.ID)

	bookmark, apiErr := svc.CreateBookmark(&models.CreateBookmarkRequest{BookID: book.ID, PageNumber: 3}, owner.ID)
	if apiErr != nil {
		t.Fatalf("CreateBookmark: %v", apiErr)
	}

	if _, apiErr := svc.UpdateBookmark(bookmark.ID, &models.UpdateBookmarkRequest{Label: "stolen"}, intruder.ID); apiErr == nil || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected forbidden for foreign update, got %v", apiErr)
	}
	if apiErr := svc.DeleteBookmark(bookmark.ID, intruder.ID); apiErr == nil || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected forbidden for foreign delete, got %v", apiErr)
	}
	if apiErr := svc.DeleteBookmark(bookmark.ID, owner.ID); apiErr != nil {
		t.Fatalf("owner delete: %v", apiErr)
	}
}
