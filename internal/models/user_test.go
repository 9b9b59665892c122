package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestUser_BeforeCreateHashesPassword(t *testing.T) {
	db := setupUserTestDB(t)

	user := &User{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "supersecret",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)

	require.True(t, strings.HasPrefix(stored.Password, "$2"), "password should be stored as a bcrypt hash")
	require.True(t, stored.ComparePassword("supersecret"))
	require.False(t, stored.ComparePassword("wrongpassword"))
}

func TestUser_BeforeCreateHashesPasswordWithBcryptPrefix(t *testing.T) {
	db := setupUserTestDB(t)

	// A password that merely looks like a bcrypt hash is still user input and
	// must be hashed like any other.
	const password = "$2y$longenoughpassword"

	user := &User{
		Email:    "prefix@example.com",
		Name:     "Prefix",
		Password: password,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)

	require.NotEqual(t, password, stored.Password, "password must not be stored as plaintext")
	require.True(t, stored.ComparePassword(password))
}

func TestUser_UnrelatedUpdateDoesNotRehash(t *testing.T) {
	db := setupUserTestDB(t)

	user := &User{
		Email:    "bob@example.com",
		Name:     "Bob",
		Password: "supersecret",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	firstHash := user.Password

	// An unrelated update must keep the stored hash byte-identical.
	user.Name = "Robert"
	require.NoError(t, db.Save(user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, firstHash, stored.Password)
	require.True(t, stored.ComparePassword("supersecret"))
}

func TestUser_BeforeCreateNormalizesEmail(t *testing.T) {
	db := setupUserTestDB(t)

	user := &User{
		Email:    "  Carol@Example.COM ",
		Name:     "Carol",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "carol@example.com", stored.Email)
}
