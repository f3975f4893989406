// escalation-eval scores one customer message offline, without a database,
// and prints the decision as JSON. Useful for tuning the lexicon.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/aquavo/support-backend/internal/escalation"
	"github.com/aquavo/support-backend/internal/lexicon"
	"github.com/aquavo/support-backend/internal/models"
)

const exitUsage = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		message      string
		reply        string
		historyPath  string
		lexiconPath  string
		threshold    int
		historyLimit int
	)
	flagSet := pflag.NewFlagSet("escalation-eval", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&message, "message", "", "latest customer message (required)")
	flagSet.StringVar(&reply, "reply", "", "automated reply to score")
	flagSet.StringVar(&historyPath, "history", "", "JSONL file of prior turns, oldest first")
	flagSet.StringVar(&lexiconPath, "lexicon", "", "YAML lexicon overriding the built-in tables")
	flagSet.IntVar(&threshold, "threshold", escalation.DefaultThreshold, "score at which a conversation escalates")
	flagSet.IntVar(&historyLimit, "history-limit", escalation.DefaultHistoryLimit, "number of prior turns considered")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if strings.TrimSpace(message) == "" {
		fmt.Fprintln(stderr, "error: --message is required")
		return exitUsage
	}

	tables, err := lexicon.Load(lexiconPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	var history escalation.StaticHistory
	if historyPath != "" {
		history, err = readHistory(historyPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(zerolog.WarnLevel)
	scorer := escalation.NewScorer(history, tables, escalation.Config{
		Threshold:    threshold,
		HistoryLimit: historyLimit,
	}, logger)
	result := scorer.Evaluate(context.Background(), "offline", message, reply)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return 0
}

func readHistory(path string) (escalation.StaticHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var turns escalation.StaticHistory
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(text), &turn); err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return turns, nil
}
