// cmd/natiq/cli.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/semaphore"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/engine"
)

// batchLine - یک سطر خروجی حالت دسته‌ای (JSONL)
type batchLine struct {
	Line     int         `json:"line"`
	Question string      `json:"question"`
	Answer   core.Answer `json:"answer"`
}

// BatchSummary counts the answered questions by intent.
type BatchSummary struct {
	Total    int
	Found    int
	ByIntent map[core.Intent]int
}

// printAnswer renders one answer as a two-column table.
func printAnswer(w io.Writer, answer core.Answer) {
	fmt.Fprintln(w, answer.Response)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"intent", string(answer.Analysis.Intent)},
		{"normalized", answer.Analysis.Normalized},
		{"persons", strings.Join(answer.Analysis.Entities.Persons.Sorted(), "، ")},
		{"topics", strings.Join(answer.Analysis.Entities.Topics.Sorted(), "، ")},
		{"lookup_found", strconv.FormatBool(answer.Metadata.LookupFound)},
		{"confidence", strconv.FormatFloat(answer.Scores.Confidence, 'f', 3, 64)},
		{"depth", strconv.Itoa(answer.Scores.Depth)},
		{"wisdom_score", strconv.FormatFloat(answer.Scores.WisdomScore, 'f', 3, 64)},
		{"style", answer.Metadata.Style},
		{"request_id", answer.Metadata.RequestID},
	})
	table.Render()
}

// readQuestions returns the non-empty lines of path ("-" is stdin) with
// their 1-based line numbers.
func readQuestions(path string) ([]string, []int, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var (
		questions []string
		lines     []int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
		lines = append(lines, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return questions, lines, nil
}

// runBatch answers every question in path with at most workers in flight
// and writes JSONL to out in input order. Progress goes to progress.
func runBatch(ctx context.Context, eng *engine.Engine, path string, c core.Context, workers int, out, progress io.Writer) (BatchSummary, error) {
	questions, lines, err := readQuestions(path)
	if err != nil {
		return BatchSummary{}, err
	}
	if workers < 1 {
		workers = 1
	}

	bar := progressbar.NewOptions(len(questions),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Answering"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	answers := make([]core.Answer, len(questions))
	sem := semaphore.NewWeighted(int64(workers))
	var acquireErr error
	for i, q := range questions {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		go func(i int, q string) {
			defer sem.Release(1)
			answers[i] = eng.Answer(ctx, q, c)
			_ = bar.Add(1)
		}(i, q)
	}
	// منتظر پایان همه‌ی کارگرها
	if err := sem.Acquire(context.Background(), int64(workers)); err != nil {
		return BatchSummary{}, err
	}
	_ = bar.Finish()
	if acquireErr != nil {
		return BatchSummary{}, fmt.Errorf("batch interrupted: %w", acquireErr)
	}

	summary := BatchSummary{ByIntent: make(map[core.Intent]int)}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	for i, answer := range answers {
		if err := enc.Encode(batchLine{Line: lines[i], Question: questions[i], Answer: answer}); err != nil {
			return summary, fmt.Errorf("failed to write batch output: %w", err)
		}
		summary.Total++
		summary.ByIntent[answer.Analysis.Intent]++
		if answer.Metadata.LookupFound {
			summary.Found++
		}
	}
	return summary, nil
}

func printSummary(w io.Writer, summary BatchSummary) {
	intents := make([]core.Intent, 0, len(summary.ByIntent))
	for intent := range summary.ByIntent {
		intents = append(intents, intent)
	}
	slices.Sort(intents)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Intent", "Count"})
	for _, intent := range intents {
		table.Append([]string{string(intent), strconv.Itoa(summary.ByIntent[intent])})
	}
	table.SetFooter([]string{"total", strconv.Itoa(summary.Total)})
	table.Render()
}
