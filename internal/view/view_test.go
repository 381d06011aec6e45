package view

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/minifeed/internal/model"
)

func TestNewRenderer_Production_ParsesAllPages(t *testing.T) {
	if _, err := NewRenderer(true); err != nil {
		t.Fatalf("NewRenderer(true) error = %v", err)
	}
}

func TestRender_Home_LoggedOut(t *testing.T) {
	r, err := NewRenderer(true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	rec := httptest.NewRecorder()
	data := map[string]any{"LoggedIn": false}
	if err := r.Render(rec, 200, "home.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/auth/login") {
		t.Error("logged-out home should link to login")
	}
	if strings.Contains(body, "/auth/logout") {
		t.Error("logged-out home should not link to logout")
	}
}

func TestRender_Feed_EscapesUserContent(t *testing.T) {
	r, err := NewRenderer(true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	entries := []model.FeedEntry{
		{
			Post: model.Post{
				ID:        1,
				Auth0ID:   "auth0|author",
				Title:     "<script>alert(1)</script>",
				Content:   "内容",
				CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
			AuthorGivenName: "太郎",
		},
	}

	rec := httptest.NewRecorder()
	data := map[string]any{
		"LoggedIn": true,
		"ViewerID": "auth0|viewer",
		"Entries":  entries,
	}
	if err := r.Render(rec, 200, "feed.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("user content should be HTML-escaped")
	}
	if !strings.Contains(body, "太郎") {
		t.Error("feed should render author given name")
	}
	if !strings.Contains(body, "2026-08-01 12:00") {
		t.Error("feed should render formatted timestamp")
	}
}

func TestRender_Feed_DeleteButtonOnlyForOwner(t *testing.T) {
	r, err := NewRenderer(true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	entries := []model.FeedEntry{
		{Post: model.Post{ID: 1, Auth0ID: "auth0|viewer", Title: "mine"}, AuthorGivenName: "A"},
		{Post: model.Post{ID: 2, Auth0ID: "auth0|other", Title: "theirs"}, AuthorGivenName: "B"},
	}

	rec := httptest.NewRecorder()
	data := map[string]any{
		"LoggedIn": true,
		"ViewerID": "auth0|viewer",
		"Entries":  entries,
	}
	if err := r.Render(rec, 200, "feed.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data-post-id="1"`) {
		t.Error("own post should have a delete button")
	}
	if strings.Contains(body, `data-post-id="2"`) {
		t.Error("other user's post should not have a delete button")
	}
}

func TestRender_Profile(t *testing.T) {
	r, err := NewRenderer(true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	picture := "https://example.com/taro.png"
	u := &model.User{
		Auth0ID:    "auth0|user123",
		GivenName:  "太郎",
		FamilyName: "山田",
		Email:      "taro@example.com",
		Picture:    &picture,
	}

	rec := httptest.NewRecorder()
	data := map[string]any{"LoggedIn": true, "User": u}
	if err := r.Render(rec, 200, "profile.html", data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "taro@example.com") {
		t.Error("profile should render email")
	}
	if !strings.Contains(body, picture) {
		t.Error("profile should render picture URL")
	}
}

func TestRender_UnknownTemplate_Production(t *testing.T) {
	r, err := NewRenderer(true)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, 200, "nope.html", nil); err == nil {
		t.Fatal("expected error for unknown template, got nil")
	}
}

func TestRender_Development_ReparsesPerRequest(t *testing.T) {
	r, err := NewRenderer(false)
	if err != nil {
		t.Fatalf("NewRenderer(false) error = %v", err)
	}

	for n := 0; n < 2; n++ {
		rec := httptest.NewRecorder()
		if err := r.Render(rec, 200, "home.html", map[string]any{"LoggedIn": false}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
}
