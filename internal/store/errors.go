package store

import (
	"errors"
	"fmt"
)

// ErrNotFound dikembalikan untuk id karyawan / punishmen yang tidak dikenal.
var ErrNotFound = errors.New("data tidak ditemukan")

// ValidationError: field wajib kosong atau referensi karyawan tidak valid.
// Tidak ada perubahan state ketika error ini dikembalikan.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError membungkus kegagalan adapter. State di memori sudah
// berubah dan tidak di-rollback.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("gagal menyimpan (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
