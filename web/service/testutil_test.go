package service

import (
	"path/filepath"
	"testing"

	"eco-ui/database"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "eco-ui-test.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() {
		_ = database.CloseDB(db)
	})
	return db
}

func newTestServices(t *testing.T) (*UserService, *EcoService) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	return users, NewEcoService(db, users)
}
