// Package report renders recommendations for people (markdown) and for
// tooling (JSONL). Neither output is read back by the program.
package report

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"stock-companion/internal/types"
)

var mu sync.Mutex

// LogEntry is one line of the recommendation log.
type LogEntry struct {
	Time       string             `json:"time"`
	Symbol     string             `json:"symbol"`
	Action     string             `json:"action"`
	Score      float64            `json:"score"`
	Confidence float64            `json:"confidence"`
	Risk       string             `json:"risk"`
	Categories map[string]float64 `json:"categories"`
	Skipped    []string           `json:"skipped,omitempty"`
}

// Log appends recommendations to a JSONL file, one object per line.
type Log struct {
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one recommendation as a JSON line.
func (l *Log) Append(rec *types.Recommendation) error {
	mu.Lock()
	defer mu.Unlock()

	entry := LogEntry{
		Time:       rec.GeneratedAt.UTC().Format(time.RFC3339),
		Symbol:     rec.Symbol,
		Action:     string(rec.Action),
		Score:      rec.OverallScore,
		Confidence: rec.Confidence,
		Risk:       string(rec.RiskTolerance),
		Categories: map[string]float64{},
	}
	for _, fs := range rec.Breakdown {
		if v, ok := fs.Score.Value(); ok {
			entry.Categories[string(fs.Category)] = v
		} else {
			entry.Skipped = append(entry.Skipped, string(fs.Category))
		}
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(entry)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips report files older than the retention window. The
// JSONL log itself is left alone; it stays append-only.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) != ".md" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		_, copyErr := io.Copy(gw, in)
		closeErr := gw.Close()
		outErr := out.Close()
		if copyErr == nil && closeErr == nil && outErr == nil {
			_ = os.Remove(p)
		}
		return nil
	})
}
