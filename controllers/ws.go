package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campuslearn/middleware"
	"campuslearn/models"
	svc "campuslearn/pkg/services"
	"campuslearn/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

// clientFrame is the client-to-server event shape.
//
//	-> {event: "join-room", room}
//	-> {event: "send-message", room, receiverId?, message, fileUrl?, fileName?, mimeType?}
//	-> {event: "share-file", room, ...}
//	-> {event: "typing-start"|"typing-stop", room}
//	<- {event: "receive-message"|"file-shared"|"user-typing"|"user-stopped-typing"|"message-error", data}
type clientFrame struct {
	Event      string  `json:"event"`
	Room       string  `json:"room"`
	ReceiverID *uint   `json:"receiverId"`
	Message    string  `json:"message"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	// MimeType classifies an attached file; the same table as the REST path.
	MimeType string `json:"mimeType"`
}

// LiveChat handles the persistent chat socket. Authentication rides on
// ?token=JWT because websocket clients cannot set the Authorization header.
func LiveChat(db *gorm.DB, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token query"})
			return
		}
		userIDStr, _, err := middleware.ParseToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}
		uid64, _ := strconv.ParseUint(userIDStr, 10, 64)
		uid := uint(uid64)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "user not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ws] upgrade error: %v", err)
			return
		}

		client := ws.NewClient(conn, uid, user.Username)
		go client.WritePump()
		defer func() {
			hub.Disconnect(client)
			conn.Close()
		}()

		conn.SetReadLimit(1 << 20) // 1MB
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[ws] read error user=%d: %v", uid, err)
				}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var frame clientFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				client.Send("message-error", gin.H{"error": "invalid payload"})
				continue
			}

			switch strings.ToLower(strings.TrimSpace(frame.Event)) {
			case "join-room":
				if frame.Room == "" {
					client.Send("message-error", gin.H{"error": "room is required"})
					continue
				}
				hub.Join(frame.Room, client)

			case "send-message":
				handleSendMessage(db, hub, client, &user, frame)

			case "share-file":
				// broadcast-only announcement of an already-uploaded file
				var data map[string]any
				_ = json.Unmarshal(raw, &data)
				delete(data, "event")
				hub.Broadcast(frame.Room, "file-shared", data)

			case "typing-start":
				hub.BroadcastExcept(frame.Room, client, "user-typing", gin.H{"userId": uid})

			case "typing-stop":
				hub.BroadcastExcept(frame.Room, client, "user-stopped-typing", gin.H{"userId": uid})

			default:
				client.Send("message-error", gin.H{"error": "unknown event"})
			}
		}
	}
}

// handleSendMessage persists a live message through the same conversation
// resolver as the REST path, then fans the enriched payload out to the room.
// On persistence failure only the originating connection hears about it.
func handleSendMessage(db *gorm.DB, hub *ws.Hub, client *ws.Client, sender *models.User, frame clientFrame) {
	if frame.Room == "" || (strings.TrimSpace(frame.Message) == "" && frame.FileURL == nil) {
		client.Send("message-error", gin.H{"error": "room and message are required"})
		return
	}

	messageType := "text"
	if frame.FileURL != nil {
		messageType = svc.FileCategory(frame.MimeType)
	}

	var a, b uint
	if frame.ReceiverID != nil {
		a, b = client.UserID, *frame.ReceiverID
	}
	conv, err := resolveConversation(db, frame.Room, a, b)
	if err != nil {
		log.Printf("[ws] resolve conversation room=%q: %v", frame.Room, err)
		client.Send("message-error", gin.H{"error": "Failed to send message"})
		return
	}

	msg := models.Message{
		SenderID:    client.UserID,
		ReceiverID:  frame.ReceiverID,
		MessageType: messageType,
		Content:     frame.Message,
		FileURL:     frame.FileURL,
		FileName:    frame.FileName,
	}
	if err := appendMessage(db, conv, &msg); err != nil {
		log.Printf("[ws] persist message room=%q: %v", frame.Room, err)
		client.Send("message-error", gin.H{"error": "Failed to send message"})
		return
	}

	hub.Broadcast(frame.Room, "receive-message", gin.H{
		"id":          msg.ID,
		"room":        frame.Room,
		"senderId":    client.UserID,
		"sender":      userSummary(*sender, true),
		"receiverId":  frame.ReceiverID,
		"message":     msg.Content,
		"messageType": msg.MessageType,
		"fileUrl":     frame.FileURL,
		"fileName":    frame.FileName,
		"timestamp":   msg.Timestamp,
		"read":        false,
	})
}
