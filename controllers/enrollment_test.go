package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func enrollmentRouter(db *gorm.DB, uid uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(uid))
	r.POST("/modules/:module_id/enroll", Enroll(db))
	r.GET("/enrollments", MyEnrollments(db))
	return r
}

func seedModule(t *testing.T, db *gorm.DB, tutorID uint, title string) models.Module {
	t.Helper()
	m := models.Module{Title: title, Description: "intro", Subject: "math", TutorID: tutorID, IsActive: true}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create module: %v", err)
	}
	return m
}

func TestEnrollOncePerModule(t *testing.T) {
	db := testDB(t)
	tutor := seedUser(t, db, "t@x.test", "tutor")
	student := seedUser(t, db, "s@x.test", "student")
	m := seedModule(t, db, tutor.ID, "Calculus I")
	r := enrollmentRouter(db, student.ID)

	rec := postJSON(r, "/modules/1/enroll", gin.H{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll: status %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	mod, ok := body["module"].(map[string]any)
	if !ok {
		t.Fatalf("enrollment has no module object: %v", body)
	}
	if mod["title"] != m.Title {
		t.Fatalf("module title = %v, want %q", mod["title"], m.Title)
	}

	rec = postJSON(r, "/modules/1/enroll", gin.H{})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate enroll: status %d, want 409", rec.Code)
	}
}

func TestMyEnrollmentsLoadsModule(t *testing.T) {
	db := testDB(t)
	tutor := seedUser(t, db, "t@x.test", "tutor")
	student := seedUser(t, db, "s@x.test", "student")
	m := seedModule(t, db, tutor.ID, "Linear Algebra")
	if err := db.Create(&models.Enrollment{StudentID: student.ID, ModuleID: m.ID, Status: models.EnrollmentEnrolled}).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	r := enrollmentRouter(db, student.ID)

	req := httptest.NewRequest(http.MethodGet, "/enrollments", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list enrollments: status %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	if len(list) != 1 {
		t.Fatalf("got %d enrollments, want 1", len(list))
	}
	mod, _ := list[0]["module"].(map[string]any)
	if mod["title"] != "Linear Algebra" {
		t.Fatalf("module title = %v, want Linear Algebra", mod["title"])
	}
}
