package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID                 uint64         `gorm:"primarykey" json:"id"`
	Email              string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name               string         `gorm:"type:varchar(255);not null" json:"name"`
	Password           string         `gorm:"type:varchar(255)" json:"-"`
	ProfilePicture     string         `gorm:"type:varchar(512)" json:"profile_picture"`
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`
	LastLogin          *time.Time     `json:"last_login"`
	CurrentWorkspaceID *uint64        `json:"current_workspace_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Accounts    []Account `gorm:"foreignKey:UserID" json:"-"`
	Memberships []Member  `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate normalizes the email and hashes the password. Every non-empty
// password is hashed on create, whatever it looks like.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.normalizeEmail()
	return u.hashPassword()
}

// BeforeUpdate normalizes the email and hashes the password only when the
// update actually changes it. Updates that leave the password untouched keep
// the stored hash byte-identical.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.normalizeEmail()

	if tx.Statement.Changed("Password") {
		return u.hashPassword()
	}
	return nil
}

func (u *User) normalizeEmail() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

func (u *User) hashPassword() error {
	if u.Password == "" {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ComparePassword checks a plaintext password against the stored hash.
func (u *User) ComparePassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// Omitted returns a copy of the user with the password hash cleared.
func (u *User) Omitted() *User {
	clone := *u
	clone.Password = ""
	return &clone
}
