package models

import "time"

// Message roles used in conversations and LLM calls.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role      string    `bson:"role" json:"role" binding:"required"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// Conversation stores the full message array inline in a single document.
// Saves overwrite the whole document (delete then recreate); concurrent saves
// of the same conversation race and the last writer wins.
type Conversation struct {
	ID        string        `bson:"_id" json:"id"`
	UserID    string        `bson:"user_id" json:"userId"`
	Title     string        `bson:"title,omitempty" json:"title,omitempty"`
	Messages  []ChatMessage `bson:"messages" json:"messages"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}
