package repository

import (
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByProvider finds an account by its (provider, provider ID) identity
func (r *GormAccountRepository) FindByProvider(provider models.Provider, providerID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
