package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// MaxBatchSize adalah batas aman satu batch, sama dengan batas transaksi
// document store.
const MaxBatchSize = 400

// BatchPolicy memecah daftar operasi menjadi batch berukuran tetap.
type BatchPolicy struct {
	MaxSize int
}

// BatchResult adalah hasil satu batch: posisi awal di daftar asli, jumlah
// item, dan error (nil jika sukses).
type BatchResult struct {
	Start int
	Size  int
	Err   error
}

func (r BatchResult) OK() bool { return r.Err == nil }

func (r BatchResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Start int    `json:"start"`
		Size  int    `json:"size"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}{Start: r.Start, Size: r.Size, OK: r.OK()}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

func NewBatchPolicy(size int) BatchPolicy {
	return BatchPolicy{MaxSize: size}.normalized()
}

func (p BatchPolicy) normalized() BatchPolicy {
	if p.MaxSize <= 0 || p.MaxSize > MaxBatchSize {
		p.MaxSize = MaxBatchSize
	}
	return p
}

// Chunks membagi n item menjadi rentang [start, end).
func (p BatchPolicy) Chunks(n int) [][2]int {
	size := p.normalized().MaxSize
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Run menjalankan commit untuk setiap batch secara berurutan. Batch yang gagal
// tidak menghentikan batch berikutnya; setiap hasil dilaporkan.
func (p BatchPolicy) Run(ctx context.Context, ops []Op, commit func(context.Context, []Op) error) []BatchResult {
	chunks := p.Chunks(len(ops))
	results := make([]BatchResult, 0, len(chunks))
	for _, ch := range chunks {
		res := BatchResult{Start: ch[0], Size: ch[1] - ch[0]}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Err = commit(ctx, ops[ch[0]:ch[1]])
		}
		results = append(results, res)
	}
	return results
}

// FirstError mengembalikan error pertama dari hasil batch, dibungkus dengan
// posisi batchnya.
func FirstError(results []BatchResult) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("batch %d-%d: %w", r.Start, r.Start+r.Size-1, r.Err)
		}
	}
	return nil
}
