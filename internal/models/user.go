package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username    string         `json:"username" gorm:"uniqueIndex;not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	DisplayName string         `json:"display_name"`
	Avatar      string         `json:"avatar"`
	Bio         string         `json:"bio"`
	Location    string         `json:"location"`
	Website     string         `json:"website"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Follow is a single edge record per (follower, following) pair. Keeping
// the relation in one row means follow/unfollow never have to update two
// user records in lockstep.
type Follow struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID      `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	FollowingID uuid.UUID      `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Follower  User `json:"follower" gorm:"foreignKey:FollowerID"`
	Following User `json:"following" gorm:"foreignKey:FollowingID"`
}

// Profile is the public view of a user, with counters derived from the
// chirps and follows tables at read time.
type Profile struct {
	User
	TweetsCount    int64 `json:"tweets_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

func (User) TableName() string {
	return "users"
}

func (Follow) TableName() string {
	return "follows"
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCannotFollowSelf   = errors.New("cannot follow yourself")
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrNotFollowing       = errors.New("not following this user")
)
