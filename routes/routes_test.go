package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"campuslearn/models"
	"campuslearn/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.UploadDir = t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Conversation{}, &models.Message{},
		&models.Module{}, &models.ModuleMaterial{}, &models.Enrollment{}, &models.ForumQuestion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db)
	return r, db
}

func TestForumListIsPublic(t *testing.T) {
	r, db := testEngine(t)

	u := models.User{Email: "a@x.test", Username: "a", Role: models.RoleStudent, Status: models.StatusActive}
	if err := u.SetPassword("pass1234"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	answer := "42"
	by := models.AnsweredByAI
	q := models.ForumQuestion{UserID: u.ID, Question: "why", Answer: &answer, AnsweredBy: &by, Timestamp: time.Now(), IsPublic: true}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/forum", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unauthenticated forum list: status %d, want 200", rec.Code)
	}
}

func TestAskAndProfileStayProtected(t *testing.T) {
	r, _ := testEngine(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPost, "/forum/ask"},
		{http.MethodGet, "/user/profile"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}
