package repository

import (
	"context"
	"fmt"
	"log"

	"rekap-kehadiran/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormAdapter adalah adapter lokal di atas database SQL (sqlite/mysql/postgres).
type gormAdapter struct {
	db     *gorm.DB
	policy BatchPolicy
}

func NewGormAdapter(db *gorm.DB, policy BatchPolicy) Adapter {
	return &gormAdapter{db: db, policy: policy.normalized()}
}

func (r *gormAdapter) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var list []model.Employee
	err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return keepValid(list, model.Employee.Validate, "karyawan"), nil
}

func (r *gormAdapter) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return keepValid(list, model.AttendanceRecord.Validate, "kehadiran"), nil
}

func (r *gormAdapter) ListDisciplinary(ctx context.Context) ([]model.DisciplinaryRecord, error) {
	var list []model.DisciplinaryRecord
	err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return keepValid(list, model.DisciplinaryRecord.Validate, "punishmen"), nil
}

func (r *gormAdapter) PutEmployee(ctx context.Context, e model.Employee) error {
	return r.WriteBatch(ctx, []Op{PutEmployeeOp(e)})
}

func (r *gormAdapter) PutAttendance(ctx context.Context, rec model.AttendanceRecord) error {
	return r.WriteBatch(ctx, []Op{PutAttendanceOp(rec)})
}

func (r *gormAdapter) PutDisciplinary(ctx context.Context, rec model.DisciplinaryRecord) error {
	return r.WriteBatch(ctx, []Op{PutDisciplinaryOp(rec)})
}

func (r *gormAdapter) DeleteEmployee(ctx context.Context, id string) error {
	return r.WriteBatch(ctx, []Op{DeleteOp(CollectionEmployees, id)})
}

func (r *gormAdapter) DeleteAttendance(ctx context.Context, id string) error {
	return r.WriteBatch(ctx, []Op{DeleteOp(CollectionAttendance, id)})
}

func (r *gormAdapter) DeleteDisciplinary(ctx context.Context, id string) error {
	return r.WriteBatch(ctx, []Op{DeleteOp(CollectionDisciplinary, id)})
}

func (r *gormAdapter) WriteBatch(ctx context.Context, ops []Op) error {
	for _, op := range ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, err)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := applyOp(tx, op); err != nil {
				return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, err)
			}
		}
		return nil
	})
}

func applyOp(tx *gorm.DB, op Op) error {
	// Upsert: insert atau update semua kolom jika id sudah ada
	upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})

	switch op.Collection {
	case CollectionEmployees:
		if op.Kind == OpDelete {
			return tx.Where("id = ?", op.ID).Delete(&model.Employee{}).Error
		}
		return upsert.Create(op.Employee).Error
	case CollectionAttendance:
		if op.Kind == OpDelete {
			return tx.Where("id = ?", op.ID).Delete(&model.AttendanceRecord{}).Error
		}
		return upsert.Create(op.Attendance).Error
	case CollectionDisciplinary:
		if op.Kind == OpDelete {
			return tx.Where("id = ?", op.ID).Delete(&model.DisciplinaryRecord{}).Error
		}
		return upsert.Create(op.Disciplinary).Error
	}
	return ErrUnknownCollection
}

func (r *gormAdapter) DeleteAllInCollection(ctx context.Context, c Collection) (int, error) {
	var target interface{}
	switch c {
	case CollectionEmployees:
		target = &model.Employee{}
	case CollectionAttendance:
		target = &model.AttendanceRecord{}
	case CollectionDisciplinary:
		target = &model.DisciplinaryRecord{}
	default:
		return 0, ErrUnknownCollection
	}

	var ids []string
	if err := r.db.WithContext(ctx).Model(target).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	ops := make([]Op, len(ids))
	for i, id := range ids {
		ops[i] = DeleteOp(c, id)
	}

	count := 0
	for _, res := range r.policy.Run(ctx, ops, r.WriteBatch) {
		if res.Err != nil {
			return count, fmt.Errorf("hapus %s: %w", c, res.Err)
		}
		count += res.Size
	}
	return count, nil
}

// keepValid membuang baris yang bentuknya tidak valid (dicatat ke log).
func keepValid[T any](list []T, validate func(T) error, label string) []T {
	out := list[:0]
	for _, item := range list {
		if err := validate(item); err != nil {
			log.Printf("[repository] lewati data %s tidak valid: %v", label, err)
			continue
		}
		out = append(out, item)
	}
	return out
}
