package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"campuslearn/models"
	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// resolveConversation finds or creates the thread for a room key. The insert
// is conditional on the unique room column, so two racing first-sends for the
// same pair converge on one row instead of creating duplicates.
func resolveConversation(db *gorm.DB, room string, a, b uint) (*models.Conversation, error) {
	conv := models.Conversation{Room: room, LastMessage: time.Now()}
	if a != 0 && b != 0 {
		conv.ParticipantA, conv.ParticipantB = models.CanonicalPair(a, b)
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room"}},
		DoNothing: true,
	}).Create(&conv).Error; err != nil {
		return nil, err
	}

	var out models.Conversation
	if err := db.Where("room = ?", room).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// appendMessage persists one message and bumps the thread's LastMessage.
func appendMessage(db *gorm.DB, conv *models.Conversation, msg *models.Message) error {
	msg.ConversationID = conv.ID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if err := db.Create(msg).Error; err != nil {
		return err
	}
	return db.Model(conv).Update("last_message", msg.Timestamp).Error
}

// usersByID loads display users for a set of ids in one query.
func usersByID(db *gorm.DB, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func userSummary(u models.User, ok bool) gin.H {
	if !ok {
		return gin.H{"id": nil, "username": "unknown", "name": "Unknown User", "avatar": ""}
	}
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"name":     u.DisplayName(),
		"email":    u.Email,
		"avatar":   u.AvatarURL,
	}
}

func messageJSON(m models.Message, users map[uint]models.User) gin.H {
	sender, ok := users[m.SenderID]
	var fileURL, fileName any
	if m.FileURL != nil {
		fileURL = *m.FileURL
	}
	if m.FileName != nil {
		fileName = *m.FileName
	}
	return gin.H{
		"id":          m.ID,
		"sender":      userSummary(sender, ok),
		"receiverId":  m.ReceiverID,
		"messageType": m.MessageType,
		"content":     m.Content,
		"fileUrl":     fileURL,
		"fileName":    fileName,
		"timestamp":   m.Timestamp,
		"read":        m.Read,
	}
}

func conversationJSON(db *gorm.DB, conv *models.Conversation) (gin.H, error) {
	ids := make([]uint, 0, len(conv.Messages)+2)
	if conv.ParticipantA != 0 {
		ids = append(ids, conv.ParticipantA, conv.ParticipantB)
	}
	for _, m := range conv.Messages {
		ids = append(ids, m.SenderID)
	}
	users, err := usersByID(db, ids)
	if err != nil {
		return nil, err
	}

	participants := make([]gin.H, 0, 2)
	if conv.ParticipantA != 0 {
		for _, pid := range []uint{conv.ParticipantA, conv.ParticipantB} {
			u, ok := users[pid]
			participants = append(participants, userSummary(u, ok))
		}
	}
	messages := make([]gin.H, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, messageJSON(m, users))
	}

	return gin.H{
		"id":           conv.ID,
		"room":         conv.Room,
		"participants": participants,
		"messages":     messages,
		"lastMessage":  conv.LastMessage,
	}, nil
}

// ListUserConversations handles GET /chat/:user_id: every thread the user
// participates in, most recent first.
func ListUserConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
			return
		}

		var convs []models.Conversation
		if err := db.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC")
		}).Where("participant_a = ? OR participant_b = ?", uid, uid).
			Order("last_message DESC").
			Find(&convs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		result := make([]gin.H, 0, len(convs))
		for i := range convs {
			item, err := conversationJSON(db, &convs[i])
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
				return
			}
			result = append(result, item)
		}
		c.JSON(http.StatusOK, result)
	}
}

// SendChatMessage handles POST /chat/send: multipart send with optional
// attachment. The attachment's coarse category wins over the caller-supplied
// message type.
func SendChatMessage(db *gorm.DB, storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID, err1 := strconv.Atoi(c.PostForm("senderId"))
		receiverID, err2 := strconv.Atoi(c.PostForm("receiverId"))
		if err1 != nil || err2 != nil || senderID == 0 || receiverID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "senderId and receiverId are required"})
			return
		}
		content := c.PostForm("content")
		messageType := c.PostForm("messageType")
		if messageType == "" {
			messageType = "text"
		}

		var fileURL, fileName *string
		if header, err := c.FormFile("file"); err == nil && header != nil {
			saved, err := storage.SaveAttachment(header)
			if err != nil {
				if errors.Is(err, svc.ErrAttachmentType) || errors.Is(err, svc.ErrAttachmentTooLarge) {
					c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
				} else {
					c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
				}
				return
			}
			fileURL = &saved.URL
			fileName = &saved.OriginalName
			messageType = saved.Category
		}

		room := models.PairRoomKey(uint(senderID), uint(receiverID))
		conv, err := resolveConversation(db, room, uint(senderID), uint(receiverID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		rid := uint(receiverID)
		msg := models.Message{
			SenderID:    uint(senderID),
			ReceiverID:  &rid,
			MessageType: messageType,
			Content:     content,
			FileURL:     fileURL,
			FileName:    fileName,
		}
		if err := appendMessage(db, conv, &msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		// reload with messages for the response
		var full models.Conversation
		if err := db.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC")
		}).First(&full, conv.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		item, err := conversationJSON(db, &full)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// GetThread handles GET /chat/:user_id/:peer_id. A pair with no history gets
// the empty sentinel {participants: [], messages: []}; clients branch on it.
func GetThread(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err1 := strconv.Atoi(c.Param("user_id"))
		pid, err2 := strconv.Atoi(c.Param("peer_id"))
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
			return
		}

		room := models.PairRoomKey(uint(uid), uint(pid))
		var conv models.Conversation
		err := db.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC")
		}).Where("room = ?", room).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"participants": []gin.H{}, "messages": []gin.H{}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		item, err := conversationJSON(db, &conv)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
