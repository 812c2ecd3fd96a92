package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationKindLike    = "like"
	NotificationKindRechirp = "rechirp"
	NotificationKindReply   = "reply"
	NotificationKindFollow  = "follow"
	NotificationKindMention = "mention"
)

type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID      `json:"actor_id" gorm:"type:uuid;not null"`
	Kind      string         `json:"kind" gorm:"size:20;not null"`
	ChirpID   *uuid.UUID     `json:"chirp_id" gorm:"type:uuid;index"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Actor User `json:"actor" gorm:"foreignKey:ActorID"`
}

func (Notification) TableName() string {
	return "notifications"
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("not the owner of this notification")
)
