package activity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	feed := r.Group("/activity")
	feed.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(feed)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email, name string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		SystemRole:   models.SystemRoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func doGet(router *gin.Engine, user models.User, path string) *httptest.ResponseRecorder {
	token, _ := auth.GenerateToken(user.ID, user.Email, string(user.SystemRole))
	req, _ := http.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestFanoutWritesOneItemPerRecipient(t *testing.T) {
	db := setupTestDB(t)
	fanout := NewFanout(db, zap.NewNop())

	fanout.MemberJoined([]uint{1, 2, 3}, 10, 4, "Dana", "dana")

	var items []models.ActivityItem
	db.Order("recipient_user_id").Find(&items)
	if len(items) != 3 {
		t.Fatalf("Expected 3 feed items, got %d", len(items))
	}
	for i, item := range items {
		if item.RecipientUserID != uint(i+1) {
			t.Errorf("Expected recipient %d, got %d", i+1, item.RecipientUserID)
		}
		if item.EventType != models.EventMemberJoined {
			t.Errorf("Expected event type %s, got %s", models.EventMemberJoined, item.EventType)
		}
		if item.Action != models.ActionJoin {
			t.Errorf("Expected action %s, got %s", models.ActionJoin, item.Action)
		}
		if item.ActorID != 4 || item.TargetUserID != 4 {
			t.Errorf("Expected actor and target 4, got %d and %d", item.ActorID, item.TargetUserID)
		}
		if item.ActorName != "Dana" {
			t.Errorf("Expected actor name Dana, got %s", item.ActorName)
		}
		if item.TargetUserName != "dana" {
			t.Errorf("Expected target name dana, got %s", item.TargetUserName)
		}
		if item.GroupID != 10 {
			t.Errorf("Expected group 10, got %d", item.GroupID)
		}
	}
}

func TestFanoutNoRecipients(t *testing.T) {
	db := setupTestDB(t)
	fanout := NewFanout(db, zap.NewNop())

	fanout.MemberJoined(nil, 10, 4, "Dana", "dana")

	var count int64
	db.Model(&models.ActivityItem{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no feed items, got %d", count)
	}
}

func TestFanoutSurvivesWriteFailure(t *testing.T) {
	db := setupTestDB(t)
	fanout := NewFanout(db, zap.NewNop())

	if err := db.Migrator().DropTable(&models.ActivityItem{}); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}

	// Must not panic; the failure is logged and swallowed
	fanout.MemberJoined([]uint{1, 2}, 10, 4, "Dana", "dana")
}

func TestListActivity(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"carol", "dave"} {
		item := models.ActivityItem{
			RecipientUserID: alice.ID,
			EventType:       models.EventMemberJoined,
			Action:          models.ActionJoin,
			ActorID:         uint(100 + i),
			ActorName:       name,
			GroupID:         7,
			TargetUserID:    uint(100 + i),
			TargetUserName:  name,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("Failed to seed feed item: %v", err)
		}
	}
	db.Create(&models.ActivityItem{
		RecipientUserID: bob.ID,
		EventType:       models.EventMemberJoined,
		Action:          models.ActionJoin,
		ActorID:         200,
		ActorName:       "erin",
		GroupID:         8,
		TargetUserID:    200,
		TargetUserName:  "erin",
	})

	resp := doGet(router, alice, "/activity")
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var feed []ItemResponse
	json.Unmarshal(resp.Body.Bytes(), &feed)

	if len(feed) != 2 {
		t.Fatalf("Expected 2 feed items for Alice, got %d", len(feed))
	}
	// Newest first
	if feed[0].TargetUserName != "dave" || feed[1].TargetUserName != "carol" {
		t.Errorf("Expected [dave carol], got [%s %s]", feed[0].TargetUserName, feed[1].TargetUserName)
	}
	if feed[0].CreatedAt != "2026-03-01T12:01:00Z" {
		t.Errorf("Expected RFC3339 UTC timestamp, got %s", feed[0].CreatedAt)
	}
}

func TestListActivityLimit(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice@example.com", "Alice")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		db.Create(&models.ActivityItem{
			RecipientUserID: alice.ID,
			EventType:       models.EventMemberJoined,
			Action:          models.ActionJoin,
			ActorID:         uint(i + 1),
			ActorName:       "member",
			GroupID:         7,
			TargetUserID:    uint(i + 1),
			TargetUserName:  "member",
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		})
	}

	resp := doGet(router, alice, "/activity?limit=2")
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var feed []ItemResponse
	json.Unmarshal(resp.Body.Bytes(), &feed)
	if len(feed) != 2 {
		t.Fatalf("Expected 2 feed items with limit, got %d", len(feed))
	}
	if feed[0].ActorID != 5 {
		t.Errorf("Expected newest item first, got actor %d", feed[0].ActorID)
	}
}
