package chatModel

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. Messages are append-only within a
// backend session; the whole history resets when the bound document changes.
type Message struct {
	Id          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	CreatedTime time.Time `json:"created_time"`
}

func NewMessage(role Role, content string) Message {
	return Message{
		Id:          uuid.New().String(),
		Role:        role,
		Content:     content,
		CreatedTime: time.Now(),
	}
}
