package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"rekap-kehadiran/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoAdapter adalah adapter cloud (document store). Punishmen tidak pernah
// dikirim ke sini.
type mongoAdapter struct {
	db     *mongo.Database
	policy BatchPolicy
}

func NewMongoAdapter(db *mongo.Database, policy BatchPolicy) Adapter {
	return &mongoAdapter{db: db, policy: policy.normalized()}
}

func (r *mongoAdapter) coll(c Collection) *mongo.Collection {
	return r.db.Collection(string(c))
}

func (r *mongoAdapter) findAll(ctx context.Context, c Collection, each func(bson.Raw)) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll(c).Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		each(cur.Current)
	}
	return cur.Err()
}

func (r *mongoAdapter) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var list []model.Employee
	err := r.findAll(ctx, CollectionEmployees, func(doc bson.Raw) {
		list = append(list, employeeFromDoc(doc))
	})
	if err != nil {
		return nil, err
	}
	return keepValid(list, model.Employee.Validate, "karyawan"), nil
}

func (r *mongoAdapter) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	var list []model.AttendanceRecord
	err := r.findAll(ctx, CollectionAttendance, func(doc bson.Raw) {
		list = append(list, attendanceFromDoc(doc))
	})
	if err != nil {
		return nil, err
	}
	return keepValid(list, model.AttendanceRecord.Validate, "kehadiran"), nil
}

func (r *mongoAdapter) ListDisciplinary(ctx context.Context) ([]model.DisciplinaryRecord, error) {
	return nil, ErrLocalOnly
}

func (r *mongoAdapter) PutEmployee(ctx context.Context, e model.Employee) error {
	return r.WriteBatch(ctx, []Op{PutEmployeeOp(e)})
}

func (r *mongoAdapter) PutAttendance(ctx context.Context, rec model.AttendanceRecord) error {
	return r.WriteBatch(ctx, []Op{PutAttendanceOp(rec)})
}

func (r *mongoAdapter) PutDisciplinary(ctx context.Context, rec model.DisciplinaryRecord) error {
	return ErrLocalOnly
}

func (r *mongoAdapter) DeleteEmployee(ctx context.Context, id string) error {
	return r.WriteBatch(ctx, []Op{DeleteOp(CollectionEmployees, id)})
}

func (r *mongoAdapter) DeleteAttendance(ctx context.Context, id string) error {
	return r.WriteBatch(ctx, []Op{DeleteOp(CollectionAttendance, id)})
}

func (r *mongoAdapter) DeleteDisciplinary(ctx context.Context, id string) error {
	return ErrLocalOnly
}

// WriteBatch mengirim ops sebagai bulk write berurutan per koleksi.
// Tanpa replica set tidak ada transaksi lintas koleksi.
func (r *mongoAdapter) WriteBatch(ctx context.Context, ops []Op) error {
	grouped := make(map[Collection][]mongo.WriteModel)
	var order []Collection

	for _, op := range ops {
		if op.Collection == CollectionDisciplinary {
			return ErrLocalOnly
		}
		if err := op.validate(); err != nil {
			return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, err)
		}

		var wm mongo.WriteModel
		filter := bson.M{"_id": op.ID}
		if op.Kind == OpDelete {
			wm = mongo.NewDeleteOneModel().SetFilter(filter)
		} else {
			wm = mongo.NewReplaceOneModel().SetFilter(filter).SetReplacement(opDoc(op)).SetUpsert(true)
		}

		if _, ok := grouped[op.Collection]; !ok {
			order = append(order, op.Collection)
		}
		grouped[op.Collection] = append(grouped[op.Collection], wm)
	}

	for _, c := range order {
		if _, err := r.coll(c).BulkWrite(ctx, grouped[c], options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("bulk write %s: %w", c, err)
		}
	}
	return nil
}

func (r *mongoAdapter) DeleteAllInCollection(ctx context.Context, c Collection) (int, error) {
	switch c {
	case CollectionEmployees, CollectionAttendance:
	case CollectionDisciplinary:
		return 0, ErrLocalOnly
	default:
		return 0, ErrUnknownCollection
	}

	var ids []string
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.coll(c).Find(ctx, bson.D{}, opts)
	if err != nil {
		return 0, err
	}
	for cur.Next(ctx) {
		if id := rawString(cur.Current, "_id"); id != "" {
			ids = append(ids, id)
		}
	}
	err = cur.Err()
	cur.Close(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ch := range r.policy.Chunks(len(ids)) {
		res, err := r.coll(c).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids[ch[0]:ch[1]]}})
		if err != nil {
			return count, fmt.Errorf("hapus %s: %w", c, err)
		}
		count += int(res.DeletedCount)
	}
	return count, nil
}

// Subscribe memantau change stream koleksi karyawan & kehadiran. Setiap
// perubahan memicu pembacaan ulang penuh lalu onSnapshot dipanggil.
func (r *mongoAdapter) Subscribe(ctx context.Context, onSnapshot func(Collections)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "ns.coll", Value: bson.D{{Key: "$in", Value: bson.A{
			string(CollectionEmployees), string(CollectionAttendance),
		}}}}}}},
	}
	cs, err := r.db.Watch(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		emps, err := r.ListEmployees(ctx)
		if err != nil {
			log.Printf("[mongo] gagal memuat karyawan dari cloud: %v", err)
			continue
		}
		att, err := r.ListAttendance(ctx)
		if err != nil {
			log.Printf("[mongo] gagal memuat kehadiran dari cloud: %v", err)
			continue
		}
		onSnapshot(Collections{Employees: emps, Attendance: att})
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func opDoc(op Op) bson.M {
	switch op.Collection {
	case CollectionEmployees:
		e := op.Employee
		return bson.M{
			"_id":       e.ID,
			"name":      e.Name,
			"nid":       e.NID,
			"bidang":    e.Bidang,
			"createdAt": e.CreatedAt,
		}
	case CollectionAttendance:
		a := op.Attendance
		return bson.M{
			"_id":            a.ID,
			"employeeId":     a.EmployeeID,
			"employeeName":   a.EmployeeName,
			"employeeNid":    a.EmployeeNID,
			"employeeBidang": a.EmployeeBidang,
			"type":           string(a.Type),
			"timestamp":      a.Timestamp,
			"monthYear":      a.MonthYear,
			"createdAt":      a.CreatedAt,
		}
	}
	return bson.M{"_id": op.ID}
}

func employeeFromDoc(doc bson.Raw) model.Employee {
	return model.Employee{
		ID:        rawString(doc, "_id"),
		Name:      rawString(doc, "name"),
		NID:       rawString(doc, "nid"),
		Bidang:    rawString(doc, "bidang"),
		CreatedAt: rawTime(doc, "createdAt"),
	}
}

func attendanceFromDoc(doc bson.Raw) model.AttendanceRecord {
	rec := model.AttendanceRecord{
		ID:             rawString(doc, "_id"),
		EmployeeID:     rawString(doc, "employeeId"),
		EmployeeName:   rawString(doc, "employeeName"),
		EmployeeNID:    rawString(doc, "employeeNid"),
		EmployeeBidang: rawString(doc, "employeeBidang"),
		Type:           model.Category(rawString(doc, "type")),
		Timestamp:      rawTime(doc, "timestamp"),
		MonthYear:      rawString(doc, "monthYear"),
		CreatedAt:      rawTime(doc, "createdAt"),
	}
	// monthYear lama yang kosong diturunkan ulang dari timestamp
	if rec.MonthYear == "" && !rec.Timestamp.IsZero() {
		rec.MonthYear = model.MonthYearOf(rec.Timestamp)
	}
	return rec
}

// rawString membaca field sebagai string; angka (mis. NID dari Excel) ikut
// dikonversi.
func rawString(doc bson.Raw, key string) string {
	rv, err := doc.LookupErr(key)
	if err != nil {
		return ""
	}
	switch rv.Type {
	case bsontype.String:
		return rv.StringValue()
	case bsontype.Int32:
		return strconv.FormatInt(int64(rv.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(rv.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(rv.Double(), 'f', -1, 64)
	case bsontype.ObjectID:
		return rv.ObjectID().Hex()
	}
	return ""
}

func rawTime(doc bson.Raw, key string) (t time.Time) {
	rv, err := doc.LookupErr(key)
	if err != nil {
		return t
	}
	return TimeFromBSON(rv)
}
