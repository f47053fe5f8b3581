package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campuslearn/middleware"
	"campuslearn/models"
	"campuslearn/pkg/cache"
	"campuslearn/pkg/config"
	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func questionJSON(q models.ForumQuestion) gin.H {
	var answer, answeredBy any
	if q.Answer != nil {
		answer = *q.Answer
	}
	if q.AnsweredBy != nil {
		answeredBy = *q.AnsweredBy
	}
	return gin.H{
		"id":         q.ID,
		"user":       userSummary(q.User, q.User.ID != 0),
		"question":   q.Question,
		"answer":     answer,
		"answeredBy": answeredBy,
		"timestamp":  q.Timestamp,
		"isPublic":   q.IsPublic,
	}
}

// ListQuestions handles GET /forum: public questions, newest first.
func ListQuestions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var questions []models.ForumQuestion
		if err := db.Preload("User").Where("is_public = ?", true).
			Order("timestamp DESC").Find(&questions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		result := make([]gin.H, 0, len(questions))
		for _, q := range questions {
			result = append(result, questionJSON(q))
		}
		c.JSON(http.StatusOK, result)
	}
}

// AskQuestion handles POST /forum/ask. The question is persisted first; the
// completion call runs after, so a provider failure leaves the question on
// record unanswered. No retry.
func AskQuestion(db *gorm.DB, assistant *svc.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uidRaw, _ := c.Get(middleware.ContextUserIDKey)
		uidStr, _ := uidRaw.(string)
		uid := middleware.CurrentUserID(c)

		var body struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "question is required"})
			return
		}
		question := strings.TrimSpace(body.Question)

		if !assistant.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "AI answers are disabled"})
			return
		}

		if !middleware.DuplicateGuard(uidStr, question) {
			c.JSON(http.StatusTooManyRequests, gin.H{"msg": "identical question was just asked"})
			return
		}

		fq := models.ForumQuestion{UserID: uid, Question: question, Timestamp: time.Now()}
		if err := db.Create(&fq).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		answer, err := answerFor(c.Request.Context(), assistant, uidStr, question)
		if err != nil {
			log.Printf("[forum] ai answer failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"msg": "Failed to generate AI response"})
			return
		}

		by := models.AnsweredByAI
		fq.Answer = &answer
		fq.AnsweredBy = &by
		if err := db.Save(&fq).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		if err := db.Preload("User").First(&fq, fq.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, questionJSON(fq))
	}
}

// answerFor memoizes answers by normalized question text so a repeated
// question doesn't burn another completion request.
func answerFor(ctx context.Context, assistant *svc.AssistantService, uid, question string) (string, error) {
	ck := cache.KeyFromStrings("forum-answer", strings.ToLower(question))
	if v, ok := cache.Default().Get(ck); ok {
		if s, ok2 := v.(string); ok2 && s != "" {
			return s, nil
		}
	}

	release := middleware.AcquireUserSlot(uid)
	defer release()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(config.AITimeoutSeconds)*time.Second)
	defer cancel()

	answer, err := assistant.GenerateAnswer(ctx, question)
	if err != nil {
		return "", err
	}
	cache.Default().Set(ck, answer, time.Duration(config.AnswerCacheTTLSeconds)*time.Second)
	return answer, nil
}

// AnswerQuestion handles POST /forum/answer/:question_id: a tutor overwrites
// the answer on a question that has none yet.
func AnswerQuestion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		qid, err := strconv.Atoi(c.Param("question_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid question id"})
			return
		}

		var body struct {
			Answer string `json:"answer"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Answer) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "answer is required"})
			return
		}

		var fq models.ForumQuestion
		if err := db.First(&fq, qid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "question not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		if fq.Answer != nil {
			c.JSON(http.StatusConflict, gin.H{"msg": "question is already answered"})
			return
		}

		answer := strings.TrimSpace(body.Answer)
		by := models.AnsweredByTutor
		fq.Answer = &answer
		fq.AnsweredBy = &by
		if err := db.Save(&fq).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		if err := db.Preload("User").First(&fq, fq.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, questionJSON(fq))
	}
}
