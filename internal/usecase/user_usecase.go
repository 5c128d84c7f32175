package usecase

import (
	"errors"
	"log"
	"strings"

	"rekap-kehadiran/internal/middleware"
	"rekap-kehadiran/internal/model"
	"rekap-kehadiran/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("NIP atau password salah")
	ErrUserIncomplete     = errors.New("nama, NIP, dan password wajib diisi")
	ErrUserExists         = errors.New("NIP sudah terdaftar")
)

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

func (u *UserUsecase) Register(name, nip, password, role string) (*model.User, error) {
	name, nip = strings.TrimSpace(name), strings.TrimSpace(nip)
	if name == "" || nip == "" || password == "" {
		return nil, ErrUserIncomplete
	}
	if role != model.RoleAdmin {
		role = model.RoleOperator
	}
	if _, err := u.repo.FindByNIP(nip); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 1. Hashing Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 2. Simpan ke Database
	user := &model.User{
		Name:     name,
		NIP:      nip,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := u.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) Login(nip, password string) (string, *model.User, error) {
	// 1. Cari user berdasarkan NIP
	user, err := u.repo.FindByNIP(strings.TrimSpace(nip))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 2. Bandingkan Password (Input vs Hash di DB)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	// 3. Jika benar, buat Token JWT
	token, err := middleware.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// EnsureAdmin membuat akun admin awal bila tabel users masih kosong.
func (u *UserUsecase) EnsureAdmin(nip, password string) error {
	count, err := u.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if _, err := u.Register("Administrator", nip, password, model.RoleAdmin); err != nil {
		return err
	}
	log.Printf("Akun admin awal dibuat (NIP %s)", nip)
	return nil
}
