package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

func setupCommentTest(t *testing.T) (*db.GormDB, CommentService, *fakeNotifier) {
	t.Helper()
	gdb := newTestDB(t)
	notifier := newFakeNotifier()
	svc := NewCommentService(db.NewCommentRepo(gdb), db.NewBookRepo(gdb), notifier)
	return gdb, svc, notifier
}

func TestCreateCommentIncludesAuthor(t *testing.T) {
	gdb, svc, notifier := setupCommentTest(t)

	alice := createTestUser(t, gdb, "alice", models.RoleUser)
	book := createTestBook(t, gdb, "commented book", alice.ID)

	comment, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{
		Content: "loved the ending",
	}, alice)
	if apiErr != nil {
		t.Fatalf("CreateComment: %v", apiErr)
	}
	if comment.BookID != book.ID {
		t.Fatalf("expected book id %d, got %d", book.ID, comment.BookID)
	}
	if comment.Author.ID != alice.ID || comment.Author.Name != alice.Name {
		t.Fatalf("expected author %d/%s, got %d/%s", alice.ID, alice.Name, comment.Author.ID, comment.Author.Name)
	}

	if len(notifier.broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(notifier.broadcasts))
	}
	if notifier.broadcasts[0].event != EventCommentCreated {
		t.Fatalf("unexpected event %q", notifier.broadcasts[0].event)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	gdb, svc, notifier := setupCommentTest(t)

	alice := createTestUser(t, gdb, "alice", models.RoleUser)
	book := createTestBook(t, gdb, "book", alice.ID)

	_, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{Content: "   "}, alice)
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank content, got %v", apiErr)
	}

	_, apiErr = svc.CreateComment(9999, &models.CreateCommentRequest{Content: "hi"}, alice)
	if apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing book, got %v", apiErr)
	}

	if len(notifier.broadcasts) != 0 {
		t.Fatalf("failed creates must not broadcast, got %d", len(notifier.broadcasts))
	}
}

func TestListBookCommentsNewestFirst(t *testing.T) {
	gdb, svc, _ := setupCommentTest(t)

	alice := createTestUser(t, gdb, "alice", models.RoleUser)
	book := createTestBook(t, gdb, "discussed book", alice.ID)
	other := createTestBook(t, gdb, "quiet book", alice.ID)

	for i, content := range []string{"first", "second", "third"} {
		comment, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{Content: content}, alice)
		if apiErr != nil {
			t.Fatalf("CreateComment(%s): %v", content, apiErr)
		}
		// spread creation times so the ordering is deterministic
		gdb.DB.Model(&models.Comment{}).Where("id = ?", comment.ID).
			Update("created_at", time.Now().Add(-time.Duration(3-i)*time.Hour))
	}

	comments, apiErr := svc.ListBookComments(book.ID)
	if apiErr != nil {
		t.Fatalf("ListBookComments: %v", apiErr)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Content != "third" || comments[2].Content != "first" {
		t.Fatalf("comments not newest first: %q ... %q", comments[0].Content, comments[2].Content)
	}

	otherComments, apiErr := svc.ListBookComments(other.ID)
	if apiErr != nil {
		t.Fatalf("ListBookComments(other): %v", apiErr)
	}
	if len(otherComments) != 0 {
		t.Fatalf("expected an empty thread, got %d comments", len(otherComments))
	}
}

func TestDeleteCommentOwnership(t *testing.T) {
	gdb, svc, notifier := setupCommentTest(t)

	alice := createTestUser(t, gdb, "alice", models.RoleUser)
	bob := createTestUser(t, gdb, "bob", models.RoleUser)
	admin := createTestUser(t, gdb, "boss", models.RoleAdmin)
	book := createTestBook(t, gdb, "book", alice.ID)

	comment, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{Content: "mine"}, alice)
	if apiErr != nil {
		t.Fatalf("CreateComment: %v", apiErr)
	}

	if apiErr := svc.DeleteComment(comment.ID, bob); apiErr == nil || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 for a stranger, got %v", apiErr)
	}
	if apiErr := svc.DeleteComment(comment.ID, alice); apiErr != nil {
		t.Fatalf("owner delete: %v", apiErr)
	}
	if apiErr := svc.DeleteComment(comment.ID, alice); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for a deleted comment, got %v", apiErr)
	}

	// admins may remove any comment
	second, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{Content: "spam"}, bob)
	if apiErr != nil {
		t.Fatalf("CreateComment: %v", apiErr)
	}
	if apiErr := svc.DeleteComment(second.ID, admin); apiErr != nil {
		t.Fatalf("admin delete: %v", apiErr)
	}

	var deletions int
	for _, b := range notifier.broadcasts {
		if b.event == EventCommentDeleted {
			deletions++
		}
	}
	if deletions != 2 {
		t.Fatalf("expected 2 deletion broadcasts, got %d", deletions)
	}
}

func TestDeleteBookRemovesItsComments(t *testing.T) {
	gdb, svc, _ := setupCommentTest(t)

	alice := createTestUser(t, gdb, "alice", models.RoleUser)
	book := createTestBook(t, gdb, "doomed book", alice.ID)

	if _, apiErr := svc.CreateComment(book.ID, &models.CreateCommentRequest{Content: "here"}, alice); apiErr != nil {
		t.Fatalf("CreateComment: %v", apiErr)
	}

	bookRepo := db.NewBookRepo(gdb)
	if err := bookRepo.DeleteBookCascade(book.ID); err != nil {
		t.Fatalf("DeleteBookCascade: %v", err)
	}

	var count int64
	gdb.DB.Model(&models.Comment{}).Where("book_id = ?", book.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected comments removed with the book, got %d", count)
	}
}
