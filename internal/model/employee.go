package model

import (
	"errors"
	"strings"
	"time"
)

type Employee struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"not null"`
	NID       string    `json:"nid" gorm:"column:nid;size:64;index"` // tidak dijamin unik
	Bidang    string    `json:"bidang"`
	CreatedAt time.Time `json:"createdAt"`
}

// EmployeeFields adalah field yang bisa diubah lewat form / import.
type EmployeeFields struct {
	Name   string `json:"name"`
	NID    string `json:"nid"`
	Bidang string `json:"bidang"`
}

func (f EmployeeFields) Trimmed() EmployeeFields {
	return EmployeeFields{
		Name:   strings.TrimSpace(f.Name),
		NID:    strings.TrimSpace(f.NID),
		Bidang: strings.TrimSpace(f.Bidang),
	}
}

// Validate: nama, NID, dan bidang wajib diisi.
func (f EmployeeFields) Validate() error {
	if f.Name == "" || f.NID == "" || f.Bidang == "" {
		return errors.New("nama, NID, dan bidang wajib diisi")
	}
	return nil
}

func (e Employee) Fields() EmployeeFields {
	return EmployeeFields{Name: e.Name, NID: e.NID, Bidang: e.Bidang}
}

// Validate dipakai di batas adapter untuk menolak dokumen yang rusak.
func (e Employee) Validate() error {
	if e.ID == "" {
		return errors.New("id karyawan kosong")
	}
	if e.Name == "" {
		return errors.New("nama karyawan kosong")
	}
	return nil
}
