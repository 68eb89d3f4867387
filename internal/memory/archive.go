// internal/memory/archive.go
package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/security"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

// Entry - یک سطر از آرشیو تعامل‌ها
type Entry struct {
	RequestID string      `json:"request_id"`
	Intent    core.Intent `json:"intent"`
	Question  string      `json:"question"`
	Found     bool        `json:"found"`
	Scores    core.Scores `json:"scores"`
	At        time.Time   `json:"at"`
}

// Archive is an append-only zstd-compressed JSONL log. Every session
// writes its own zstd frame, so reopening the same file keeps older
// entries readable.
type Archive struct {
	mu      sync.Mutex
	file    *os.File
	encoder *zstd.Encoder
	guard   *security.PrivacyGuard
	closed  bool
}

func OpenArchive(path string, level int, guard *security.PrivacyGuard) (*Archive, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	if guard == nil {
		guard = security.NewPrivacyGuard()
	}
	return &Archive{file: file, encoder: encoder, guard: guard}, nil
}

// Record appends one interaction. Questions refused for privacy are
// stored only as a hash.
func (a *Archive) Record(_ context.Context, question string, answer core.Answer) error {
	if answer.Analysis.Intent == core.IntentPersonalLife {
		question = a.guard.Redact(question)
	}

	at := answer.Metadata.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	line, err := json.Marshal(Entry{
		RequestID: answer.Metadata.RequestID,
		Intent:    answer.Analysis.Intent,
		Question:  question,
		Found:     answer.Metadata.LookupFound,
		Scores:    answer.Scores,
		At:        at.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode archive entry: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("archive is closed")
	}
	if _, err := a.encoder.Write(line); err != nil {
		return fmt.Errorf("failed to write archive entry: %w", err)
	}
	return nil
}

// Flush pushes buffered entries to disk. The current frame stays open
// until Close.
func (a *Archive) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	return a.encoder.Flush()
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	if err := a.encoder.Close(); err != nil {
		a.file.Close()
		return fmt.Errorf("failed to finish archive frame: %w", err)
	}
	return a.file.Close()
}

// ReadArchive decodes every entry of a closed archive file.
func ReadArchive(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	var entries []Entry
	reader := bufio.NewReader(decoder)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var entry Entry
			if jerr := json.Unmarshal(line, &entry); jerr != nil {
				return entries, fmt.Errorf("failed to decode archive entry %d: %w", len(entries), jerr)
			}
			entries = append(entries, entry)
		}
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("failed to read archive: %w", err)
		}
	}
}
