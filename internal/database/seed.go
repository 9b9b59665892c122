package database

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
)

// SeedRoles inserts a Role row for every entry of the given role-to-permissions
// table that does not exist yet. Existing rows are left untouched: if the table
// changes after first boot, the database keeps the old permission sets until a
// manual re-seed.
func SeedRoles(db *gorm.DB, table map[models.RoleName][]models.Permission) error {
	for name, permissions := range table {
		var existing models.Role
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check role %s: %w", name, err)
		}

		role := models.Role{
			Name:        name,
			Permissions: datatypes.JSONSlice[models.Permission](permissions),
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	return nil
}
