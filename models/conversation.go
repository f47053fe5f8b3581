package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Conversation is a persisted message thread. Direct (two-party) threads and
// free-form rooms share the same shape: both are addressed by the Room key, so
// the REST facade and the live channel read and write the same records.
type Conversation struct {
	gorm.Model
	// Room is the canonical thread key. For a two-party thread it is derived
	// from the participant pair (see PairRoomKey); for a live room it is the
	// client-chosen room id. Unique so concurrent first-sends cannot create
	// two threads for the same pair.
	Room string `gorm:"uniqueIndex;size:191;not null"`
	// ParticipantA < ParticipantB after canonicalization; both zero for a
	// free-form room whose membership is only known to the live layer.
	ParticipantA uint      `gorm:"index"`
	ParticipantB uint      `gorm:"index"`
	LastMessage  time.Time `gorm:"index"`
	Messages     []Message `gorm:"constraint:OnDelete:CASCADE"`
}

type Message struct {
	gorm.Model
	ConversationID uint `gorm:"index;not null"`
	SenderID       uint `gorm:"index;not null"`
	// ReceiverID is nil for room broadcasts with no single receiver.
	ReceiverID *uint `gorm:"index"`
	// MessageType is one of text, image, pdf, word, powerpoint.
	MessageType string `gorm:"size:20;not null;default:text"`
	// Content is always present; empty string for attachment-only messages.
	Content   string    `gorm:"type:text;not null"`
	FileURL   *string   `gorm:"size:500"`
	FileName  *string   `gorm:"size:255"`
	Timestamp time.Time `gorm:"autoCreateTime;index"`
	// Read is persisted but never transitioned anywhere yet.
	Read bool `gorm:"default:false"`
}

// PairRoomKey returns the canonical room key for a two-party thread. The key
// is order-independent: PairRoomKey(a, b) == PairRoomKey(b, a).
func PairRoomKey(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("dm:%d:%d", a, b)
}

// CanonicalPair orders a participant pair the way Conversation stores it.
func CanonicalPair(a, b uint) (uint, uint) {
	if b < a {
		return b, a
	}
	return a, b
}
