package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"stock-companion/internal/interfaces"
	"stock-companion/internal/report"
	"stock-companion/internal/store"
	"stock-companion/internal/types"
	"stock-companion/internal/watch"
)

// shell is the interactive front end. It keeps a current symbol so the
// user can run several commands against the same stock.
type shell struct {
	cfg     *store.Config
	advisor interfaces.Advisor
	writer  *report.Writer
	recLog  *report.Log
	symbol  string
}

func newShell(cfg *store.Config, adv interfaces.Advisor, w *report.Writer, l *report.Log) *shell {
	return &shell{cfg: cfg, advisor: adv, writer: w, recLog: l}
}

func (s *shell) setSymbol(sym string) {
	s.symbol = strings.ToUpper(strings.TrimSpace(sym))
}

func (s *shell) run(ctx context.Context) {
	fmt.Println("Stock Companion. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if s.symbol != "" {
			fmt.Printf("%s> ", s.symbol)
		} else {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			s.printHelp()
		case "symbol":
			if len(args) == 0 {
				fmt.Println("Usage: symbol <TICKER>")
				continue
			}
			s.setSymbol(args[0])
		case "analyze":
			s.analyze(ctx, s.target(args))
		case "indicators":
			s.indicators(ctx, s.target(args))
		case "report":
			s.report(ctx, s.target(args))
		case "watch":
			s.watchOnce(ctx)
		default:
			fmt.Printf("Unknown command %q. Type 'help'.\n", cmd)
		}
	}
}

// target resolves the symbol for a command: an explicit argument wins,
// otherwise the current symbol is used.
func (s *shell) target(args []string) string {
	if len(args) > 0 {
		return strings.ToUpper(args[0])
	}
	return s.symbol
}

func (s *shell) analyze(ctx context.Context, sym string) {
	rec, ok := s.recommend(ctx, sym)
	if !ok {
		return
	}
	s.printRecommendation(rec)
}

func (s *shell) report(ctx context.Context, sym string) {
	rec, ok := s.recommend(ctx, sym)
	if !ok {
		return
	}
	path, err := s.writer.Write(rec)
	if err != nil {
		fmt.Printf("Failed to write report: %v\n", err)
		return
	}
	s.printRecommendation(rec)
	fmt.Printf("Report written to %s\n", path)
}

func (s *shell) recommend(ctx context.Context, sym string) (*types.Recommendation, bool) {
	if sym == "" {
		fmt.Println("No symbol set. Use 'symbol <TICKER>' or pass one as an argument.")
		return nil, false
	}
	rec, err := s.advisor.Analyze(ctx, sym)
	if err != nil {
		if errors.Is(err, types.ErrInsufficientSignal) {
			fmt.Printf("No usable data for %s; cannot make a recommendation.\n", sym)
		} else {
			fmt.Printf("Analysis failed: %v\n", err)
		}
		return nil, false
	}
	if err := s.recLog.Append(rec); err != nil {
		fmt.Printf("Warning: failed to append recommendation log: %v\n", err)
	}
	return rec, true
}

func (s *shell) printRecommendation(rec *types.Recommendation) {
	fmt.Printf("\n%s: %s (score %.1f, confidence %.1f%%, risk %s)\n",
		rec.Symbol, rec.Action, rec.OverallScore, rec.Confidence, rec.RiskTolerance)
	for _, fs := range rec.Breakdown {
		if v, ok := fs.Score.Value(); ok {
			fmt.Printf("  %-12s %.1f\n", fs.Category, v)
		} else {
			fmt.Printf("  %-12s no data\n", fs.Category)
		}
	}
	fmt.Println()
}

func (s *shell) indicators(ctx context.Context, sym string) {
	if sym == "" {
		fmt.Println("No symbol set. Use 'symbol <TICKER>' or pass one as an argument.")
		return
	}
	res, err := s.advisor.Indicators(ctx, sym)
	if err != nil {
		fmt.Printf("Indicator computation failed: %v\n", err)
		return
	}

	names := make([]string, 0, len(res.Lines))
	for name := range res.Lines {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\nLatest indicator values for %s:\n", res.Symbol)
	for _, name := range names {
		if v, ok := res.Latest(name); ok {
			fmt.Printf("  %-16s %10.4f\n", name, v)
		} else {
			fmt.Printf("  %-16s %10s\n", name, "n/a")
		}
	}
	fmt.Println()
}

// watchOnce analyzes the configured watch list immediately.
func (s *shell) watchOnce(ctx context.Context) {
	if len(s.cfg.Watch.Symbols) == 0 {
		fmt.Println("No watch.symbols configured.")
		return
	}
	sched := watch.New(ctx, s.cfg, s.advisor, s.recLog)
	sched.RunNow()
	fmt.Printf("Analyzed %d watched symbols; results appended to %s\n",
		len(s.cfg.Watch.Symbols), s.cfg.Report.LogPath)
}

func (s *shell) printHelp() {
	fmt.Print(`Commands:
  symbol <TICKER>      set the current symbol
  analyze [TICKER]     fetch data and print a recommendation
  indicators [TICKER]  print latest technical indicator values
  report [TICKER]      analyze and write a markdown report
  watch                analyze the configured watch list once
  help                 show this help
  quit                 exit
`)
}
