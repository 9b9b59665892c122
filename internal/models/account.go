package models

import "time"

type Provider string

const (
	ProviderGoogle   Provider = "GOOGLE"
	ProviderGithub   Provider = "GITHUB"
	ProviderFacebook Provider = "FACEBOOK"
	ProviderEmail    Provider = "EMAIL"
)

// Account links a user to one external identity. For EMAIL accounts the
// provider ID is the email address itself. Rows are immutable after create.
type Account struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"user_id"`
	Provider   Provider  `gorm:"type:varchar(20);not null;uniqueIndex:idx_accounts_provider_identity" json:"provider"`
	ProviderID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_provider_identity" json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
