package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func profileRouter(db *gorm.DB, uid uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/", asUser(uid))
	g.GET("/user/profile", Profile(db))
	g.PUT("/user/profile", Profile(db))
	g.PUT("/user/schedule", UpdateSchedule(db))
	g.PUT("/user/progress", UpdateProgress(db))
	return r
}

func putJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestProfileUpdateEducationExperience(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "tutor@x.test", "tutor1")
	r := profileRouter(db, u.ID)

	rec := putJSON(r, "/user/profile", gin.H{
		"education":  "BSc Computer Science, UP",
		"experience": "3 years tutoring first-years",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var saved models.User
	if err := db.First(&saved, u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if saved.Education != "BSc Computer Science, UP" {
		t.Fatalf("education = %q", saved.Education)
	}
	if saved.Experience != "3 years tutoring first-years" {
		t.Fatalf("experience = %q", saved.Experience)
	}

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	resp := decodeJSON(t, get)
	if resp["education"] != saved.Education || resp["experience"] != saved.Experience {
		t.Fatalf("profile response missing fields: %s", get.Body.String())
	}
}

func TestUpdateScheduleStoresBlob(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "tutor@x.test", "tutor1")
	r := profileRouter(db, u.ID)

	schedule := gin.H{
		"availability": []gin.H{{"day": "Monday", "slots": []string{"09:00", "14:00"}}},
		"timezone":     "Africa/Johannesburg",
	}
	rec := putJSON(r, "/user/schedule", gin.H{"schedule": schedule})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeJSON(t, rec)
	user, _ := resp["user"].(map[string]any)
	got, _ := user["schedule"].(map[string]any)
	if got["timezone"] != "Africa/Johannesburg" {
		t.Fatalf("schedule not echoed back: %s", rec.Body.String())
	}

	var saved models.User
	if err := db.First(&saved, u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal([]byte(saved.Schedule), &stored); err != nil {
		t.Fatalf("stored schedule is not JSON: %v (%q)", err, saved.Schedule)
	}
	if stored["timezone"] != "Africa/Johannesburg" {
		t.Fatalf("stored schedule = %q", saved.Schedule)
	}
}

func TestUpdateProgressRequiresField(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "stud@x.test", "stud1")
	r := profileRouter(db, u.ID)

	rec := putJSON(r, "/user/progress", gin.H{"something": "else"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}

	rec = putJSON(r, "/user/progress", gin.H{"progress": gin.H{"completedModules": []int{1, 2}}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var saved models.User
	db.First(&saved, u.ID)
	if saved.Progress == "" {
		t.Fatal("progress blob not stored")
	}
}
