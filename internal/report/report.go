package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stock-companion/internal/types"
)

// Writer renders markdown reports into a directory, one file per
// symbol and run.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write renders a recommendation to markdown and returns the file path.
func (w *Writer) Write(rec *types.Recommendation) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.md", rec.Symbol, rec.GeneratedAt.UTC().Format("2006-01-02_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(Render(rec)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Render produces the markdown body for a recommendation.
func Render(rec *types.Recommendation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Analysis Report\n\n", rec.Symbol)
	fmt.Fprintf(&b, "Generated: %s\n\n", rec.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "## Recommendation: %s\n\n", rec.Action)
	fmt.Fprintf(&b, "- Overall score: %.1f / 100\n", rec.OverallScore)
	fmt.Fprintf(&b, "- Confidence: %.1f%%\n", rec.Confidence)
	fmt.Fprintf(&b, "- Risk tolerance: %s\n\n", rec.RiskTolerance)

	b.WriteString("## Category Breakdown\n\n")
	b.WriteString("| Category | Score | Status |\n")
	b.WriteString("|----------|-------|--------|\n")
	for _, fs := range rec.Breakdown {
		if v, ok := fs.Score.Value(); ok {
			fmt.Fprintf(&b, "| %s | %.1f | used |\n", fs.Category, v)
		} else {
			fmt.Fprintf(&b, "| %s | - | no data |\n", fs.Category)
		}
	}
	b.WriteString("\n")

	for _, fs := range rec.Breakdown {
		if len(fs.Components) == 0 {
			continue
		}
		if _, ok := fs.Score.Value(); !ok {
			continue
		}
		fmt.Fprintf(&b, "### %s components\n\n", capitalize(string(fs.Category)))
		for _, name := range sortedKeys(fs.Components) {
			if v, ok := fs.Components[name].Value(); ok {
				fmt.Fprintf(&b, "- %s: %.1f\n", name, v)
			} else {
				fmt.Fprintf(&b, "- %s: unavailable\n", name)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	b.WriteString("This report is generated from public data and is not investment advice.\n")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m map[string]types.Score) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
