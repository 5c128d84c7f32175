package model

import (
	"errors"
	"time"
)

// DisciplinaryRecord (punishmen) selalu disimpan di penyimpanan lokal.
type DisciplinaryRecord struct {
	ID             string    `json:"id" gorm:"primaryKey;size:64"`
	EmployeeID     string    `json:"employeeId" gorm:"size:64;index;not null"`
	EmployeeName   string    `json:"employeeName"`
	EmployeeNID    string    `json:"employeeNid" gorm:"column:employee_nid"`
	EmployeeBidang string    `json:"employeeBidang"`
	Date           string    `json:"date" gorm:"size:10"` // YYYY-MM-DD
	MonthYear      string    `json:"monthYear" gorm:"size:7;index"`
	Action         string    `json:"action"`
	Desc           string    `json:"desc"`
	FileName       string    `json:"fileName"`
	FileAttachment string    `json:"fileAttachment,omitempty"` // data URL
	CreatedAt      time.Time `json:"createdAt"`
}

func (r DisciplinaryRecord) Validate() error {
	if r.ID == "" {
		return errors.New("id punishmen kosong")
	}
	if r.EmployeeID == "" {
		return errors.New("employeeId kosong")
	}
	if r.Date == "" || r.Action == "" {
		return errors.New("tanggal dan action wajib diisi")
	}
	return nil
}

func (r *DisciplinaryRecord) Stamp(e Employee) {
	r.EmployeeID = e.ID
	r.EmployeeName = e.Name
	r.EmployeeNID = e.NID
	r.EmployeeBidang = e.Bidang
}

// Attachment adalah lampiran mentah sebelum dikodekan ke data URL.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}
