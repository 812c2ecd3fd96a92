package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxChirpLength is the content cap after trimming whitespace.
const MaxChirpLength = 280

type Chirp struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	ReplyToID   *uuid.UUID     `json:"reply_to_id" gorm:"type:uuid;index"`
	RechirpOfID *uuid.UUID     `json:"rechirp_of_id" gorm:"type:uuid"`
	MediaURLs   []string       `json:"media_urls" gorm:"type:text[]"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

type Like struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_chirp"`
	ChirpID   uuid.UUID      `json:"chirp_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_chirp"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User  User  `json:"user" gorm:"foreignKey:UserID"`
	Chirp Chirp `json:"chirp" gorm:"foreignKey:ChirpID"`
}

type Rechirp struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_rechirp_user_chirp"`
	ChirpID   uuid.UUID      `json:"chirp_id" gorm:"type:uuid;not null;uniqueIndex:idx_rechirp_user_chirp"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User  User  `json:"user" gorm:"foreignKey:UserID"`
	Chirp Chirp `json:"chirp" gorm:"foreignKey:ChirpID"`
}

// ChirpView is a chirp decorated for a viewing context. Counters are
// derived at read time, never stored on the chirp row.
type ChirpView struct {
	Chirp
	LikeCount    int64 `json:"like_count"`
	RechirpCount int64 `json:"rechirp_count"`
	ReplyCount   int64 `json:"reply_count"`
	IsLiked      bool  `json:"is_liked"`
	IsRechirped  bool  `json:"is_rechirped"`
}

func (Chirp) TableName() string {
	return "chirps"
}

func (Like) TableName() string {
	return "likes"
}

func (Rechirp) TableName() string {
	return "rechirps"
}

var (
	ErrChirpNotFound = errors.New("chirp not found")
	// ErrParentNotFound is a validation failure of the create request,
	// not a missing resource, so it maps to 400 rather than 404.
	ErrParentNotFound   = errors.New("parent chirp not found")
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrContentTooLong   = errors.New("content exceeds 280 characters")
	ErrAlreadyLiked     = errors.New("already liked this chirp")
	ErrNotLiked         = errors.New("not liked this chirp")
	ErrAlreadyRechirped = errors.New("already rechirped this chirp")
	ErrNotRechirped     = errors.New("not rechirped this chirp")
	ErrNotChirpOwner    = errors.New("not the owner of this chirp")
	ErrEmptySearchQuery = errors.New("search query cannot be empty")
)
