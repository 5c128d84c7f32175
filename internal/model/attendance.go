package model

import (
	"errors"
	"fmt"
	"time"
)

// AttendanceRecord menyimpan salinan data karyawan saat catatan dibuat.
// Salinan hanya diperbarui ketika karyawan diedit.
type AttendanceRecord struct {
	ID             string    `json:"id" gorm:"primaryKey;size:64"`
	EmployeeID     string    `json:"employeeId" gorm:"size:64;index;not null"`
	EmployeeName   string    `json:"employeeName"`
	EmployeeNID    string    `json:"employeeNid" gorm:"column:employee_nid"`
	EmployeeBidang string    `json:"employeeBidang"`
	Type           Category  `json:"type" gorm:"size:32;index"`
	Timestamp      time.Time `json:"timestamp"`
	MonthYear      string    `json:"monthYear" gorm:"size:7;index"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (r AttendanceRecord) Validate() error {
	if r.ID == "" {
		return errors.New("id catatan kosong")
	}
	if r.EmployeeID == "" {
		return errors.New("employeeId kosong")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("tipe kehadiran tidak dikenal: %q", r.Type)
	}
	if r.Timestamp.IsZero() {
		return errors.New("timestamp kosong")
	}
	return nil
}

// Stamp menyalin field tampilan karyawan ke catatan.
func (r *AttendanceRecord) Stamp(e Employee) {
	r.EmployeeID = e.ID
	r.EmployeeName = e.Name
	r.EmployeeNID = e.NID
	r.EmployeeBidang = e.Bidang
}
