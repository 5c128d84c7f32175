package repository

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Backend lama menyimpan waktu dalam beberapa bentuk: datetime BSON, epoch
// milidetik (int/double), timestamp BSON, atau string RFC 3339. Semua
// dinormalisasi ke time.Time di sini, sebelum sampai ke Domain Store.

func timeFromMillis(ms float64) time.Time {
	if ms == 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}
	}
	sec, frac := math.Modf(ms / 1000)
	return time.Unix(int64(sec), int64(frac*1e9)).Local()
}

func timeFromString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return timeFromMillis(ms)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Local()
	}
	return time.Time{}
}

// TimeFromBSON menormalisasi nilai BSON mentah menjadi waktu lokal.
// Nilai yang tidak dikenal menghasilkan zero time.
func TimeFromBSON(rv bson.RawValue) time.Time {
	switch rv.Type {
	case bsontype.DateTime:
		return rv.Time().Local()
	case bsontype.Timestamp:
		sec, _ := rv.Timestamp()
		return time.Unix(int64(sec), 0).Local()
	case bsontype.Int64:
		return timeFromMillis(float64(rv.Int64()))
	case bsontype.Int32:
		return timeFromMillis(float64(rv.Int32()))
	case bsontype.Double:
		return timeFromMillis(rv.Double())
	case bsontype.String:
		return timeFromString(rv.StringValue())
	case bsontype.EmbeddedDocument:
		// bentuk ekspor timestamp Firestore: {seconds, nanoseconds}
		doc := rv.Document()
		var sec, nsec int64
		if v, err := doc.LookupErr("seconds"); err == nil {
			sec = rawInt64(v)
		}
		if v, err := doc.LookupErr("nanoseconds"); err == nil {
			nsec = rawInt64(v)
		}
		if sec == 0 && nsec == 0 {
			return time.Time{}
		}
		return time.Unix(sec, nsec).Local()
	}
	return time.Time{}
}

func rawInt64(rv bson.RawValue) int64 {
	if v, ok := rv.Int64OK(); ok {
		return v
	}
	if v, ok := rv.Int32OK(); ok {
		return int64(v)
	}
	if v, ok := rv.DoubleOK(); ok {
		return int64(v)
	}
	return 0
}

// TimeFromJSON menormalisasi nilai JSON (angka epoch ms, string, atau objek
// {seconds, nanoseconds}).
func TimeFromJSON(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return timeFromMillis(num)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return timeFromString(s)
	}
	var obj struct {
		Seconds     int64 `json:"seconds"`
		Nanoseconds int64 `json:"nanoseconds"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && (obj.Seconds != 0 || obj.Nanoseconds != 0) {
		return time.Unix(obj.Seconds, obj.Nanoseconds).Local()
	}
	return time.Time{}
}
