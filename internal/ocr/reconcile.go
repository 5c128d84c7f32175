package ocr

import (
	"context"
	"log"

	"rekap-kehadiran/internal/model"
)

// NameResolver dipenuhi oleh *Resolver.
type NameResolver interface {
	Resolve(name string) (string, bool)
}

// SubmitFunc mengirim satu catatan kehadiran hasil rekonsiliasi.
type SubmitFunc func(ctx context.Context, category model.Category, employeeID string) error

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped" // nama tidak cocok dengan karyawan mana pun
	OutcomeFailed  Outcome = "failed"
)

type Item struct {
	Category   model.Category `json:"category"`
	Name       string         `json:"name"`
	EmployeeID string         `json:"employeeId,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	Error      string         `json:"error,omitempty"`
}

type Summary struct {
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Items   []Item `json:"items"`
}

// Reconcile mencocokkan setiap nama lalu mengirimkannya lewat submit. Nama
// yang tidak cocok dilewati, kegagalan submit dicatat sebagai peringatan;
// proses tidak pernah berhenti di tengah dan tidak ada retry.
func Reconcile(ctx context.Context, groups []Group, resolver NameResolver, submit SubmitFunc) Summary {
	sum := Summary{Items: []Item{}}

	for _, g := range groups {
		for _, name := range g.Names {
			item := Item{Category: g.Category, Name: name}

			id, ok := resolver.Resolve(name)
			if !ok {
				log.Printf("[ocr] nama tidak cocok: %q (%s)", name, g.Category)
				item.Outcome = OutcomeSkipped
				sum.Skipped++
				sum.Items = append(sum.Items, item)
				continue
			}

			item.EmployeeID = id
			if err := submit(ctx, g.Category, id); err != nil {
				log.Printf("[ocr] gagal submit %q (%s): %v", name, g.Category, err)
				item.Outcome = OutcomeFailed
				item.Error = err.Error()
				sum.Failed++
			} else {
				item.Outcome = OutcomeApplied
				sum.Applied++
			}
			sum.Items = append(sum.Items, item)
		}
	}
	return sum
}
