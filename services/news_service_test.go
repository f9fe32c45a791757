package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/readhaven/readhaven/db"
	"github.com/readhaven/readhaven/models"
)

func setupNewsTest(t *testing.T) (*db.GormDB, NewsService) {
	t.Helper()
	gdb := newTestDB(t)
	return gdb, NewNewsService(db.NewNewsRepo(gdb))
}

func TestListNewsNewestFirst(t *testing.T) {
	gdb, svc := setupNewsTest(t)

	for i, title := range []string{"oldest", "middle", "latest"} {
		item, apiErr := svc.CreateNews(&models.CreateNewsRequest{
			Title:   title,
			Content: "announcement body",
		})
		if apiErr != nil {
			t.Fatalf("CreateNews(%s): %v", title, apiErr)
		}
		gdb.DB.Model(&models.News{}).Where("id = ?", item.ID).
			Update("created_at", time.Now().Add(-time.Duration(3-i)*time.Hour))
	}

	items, err := svc.ListNews()
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 news items, got %d", len(items))
	}
	if items[0].Title != "latest" || items[2].Title != "oldest" {
		t.Fatalf("news not newest first: %q ... %q", items[0].Title, items[2].Title)
	}
}

func TestCreateNewsValidation(t *testing.T) {
	_, svc := setupNewsTest(t)

	for _, req := range []*models.CreateNewsRequest{
		{Title: "  ", Content: "body"},
		{Title: "title", Content: ""},
	} {
		_, apiErr := svc.CreateNews(req)
		if apiErr == nil || apiErr.Status != http.StatusBadRequest {
			t.Fatalf("expected 400 for %+v, got %v", req, apiErr)
		}
	}
}

func TestUpdateNewsKeepsOmittedFields(t *testing.T) {
	_, svc := setupNewsTest(t)

	item, apiErr := svc.CreateNews(&models.CreateNewsRequest{
		Title:    "Reading week",
		Content:  "Starts Monday",
		ImageURL: "https://cdn.example.com/banner.png",
	})
	if apiErr != nil {
		t.Fatalf("CreateNews: %v", apiErr)
	}

	updated, apiErr := svc.UpdateNews(item.ID, &models.UpdateNewsRequest{Content: "Starts Tuesday"})
	if apiErr != nil {
		t.Fatalf("UpdateNews: %v", apiErr)
	}
	if updated.Title != "Reading week" || updated.Content != "Starts Tuesday" {
		t.Fatalf("unexpected update result: %q / %q", updated.Title, updated.Content)
	}
	if updated.ImageURL != "https://cdn.example.com/banner.png" {
		t.Fatalf("image url must survive a partial update, got %q", updated.ImageURL)
	}

	if _, apiErr := svc.UpdateNews(9999, &models.UpdateNewsRequest{Title: "x"}); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing item, got %v", apiErr)
	}
}

func TestDeleteNews(t *testing.T) {
	_, svc := setupNewsTest(t)

	item, apiErr := svc.CreateNews(&models.CreateNewsRequest{Title: "Gone soon", Content: "body"})
	if apiErr != nil {
		t.Fatalf("CreateNews: %v", apiErr)
	}

	if apiErr := svc.DeleteNews(item.ID); apiErr != nil {
		t.Fatalf("DeleteNews: %v", apiErr)
	}
	if apiErr := svc.DeleteNews(item.ID); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for a deleted item, got %v", apiErr)
	}

	items, err := svc.ListNews()
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no news left, got %d", len(items))
	}
}
