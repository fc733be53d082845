package services

import (
	"fmt"
	"strings"
	"testing"

	"superfan/database"
	"superfan/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a per-test in-memory database to avoid cross-test
// interference.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedClub(t *testing.T, db *gorm.DB, code string) *models.Club {
	t.Helper()
	club := models.Club{ClubCode: code, Name: "Club " + code, IsActive: true}
	require.NoError(t, db.Create(&club).Error)
	return &club
}

func seedUser(t *testing.T, db *gorm.DB, code string) *models.User {
	t.Helper()
	user := models.User{UserCode: code, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
