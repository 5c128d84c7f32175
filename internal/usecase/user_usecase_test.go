package usecase

import (
	"testing"

	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUsecase(t *testing.T) *UserUsecase {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return NewUserUsecase(repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newUsecase(t)

	user, err := uc.Register(" Siti ", "1990", "rahasia", "")
	require.NoError(t, err)
	assert.Equal(t, "Siti", user.Name)
	assert.Equal(t, model.RoleOperator, user.Role)
	assert.NotEqual(t, "rahasia", user.Password)

	_, err = uc.Register("Siti lagi", "1990", "x", "")
	assert.ErrorIs(t, err, ErrUserExists)

	token, logged, err := uc.Login("1990", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1990", claims.NIP)
}

func TestLoginWrongPassword(t *testing.T) {
	uc := newUsecase(t)
	_, err := uc.Register("Budi", "1", "benar", "")
	require.NoError(t, err)

	_, _, err = uc.Login("1", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = uc.Login("tidak-ada", "benar")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterIncomplete(t *testing.T) {
	uc := newUsecase(t)
	_, err := uc.Register("", "1", "x", "")
	assert.ErrorIs(t, err, ErrUserIncomplete)
}

func TestEnsureAdminOnlyOnce(t *testing.T) {
	uc := newUsecase(t)
	require.NoError(t, uc.EnsureAdmin("admin", "admin123"))
	require.NoError(t, uc.EnsureAdmin("admin2", "admin123"))

	_, user, err := uc.Login("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	_, _, err = uc.Login("admin2", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
