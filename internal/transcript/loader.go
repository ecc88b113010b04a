package transcript

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"tdmenu/internal/model"
)

// HarvestResult holds entries read from a JSONL transcript and the offset to resume from.
type HarvestResult struct {
	Entries   model.Transcript
	NewOffset int64
	Skipped   int
}

// maxLine bounds a single JSONL entry.
const maxLine = 10 * 1024 * 1024

// Load reads a whole transcript file. It accepts a JSON array of entries, a
// feedback attachment document, or JSONL with one entry per line.
func Load(path string) (model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		t, _, err := model.ParseTranscript(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return t, nil
	}

	// A single object is either an attachment or the first line of JSONL.
	if t, _, err := model.ParseTranscript(trimmed); err == nil {
		return t, nil
	}

	result, err := harvest(path, 0, true)
	if err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// Harvest reads complete JSONL lines starting at fromOffset. A trailing line
// without a newline is left for the next call, so a transcript that is still
// being written is never read half way through an entry. Lines that are not
// JSON objects are skipped; objects that fail to decode are kept as unknown
// entries. Both count towards Skipped.
func Harvest(path string, fromOffset int64) (*HarvestResult, error) {
	return harvest(path, fromOffset, false)
}

func harvest(path string, fromOffset int64, final bool) (*HarvestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if fromOffset > 0 {
		if _, err := f.Seek(fromOffset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to %d: %w", fromOffset, err)
		}
	}

	r := bufio.NewReaderSize(f, 64*1024)
	result := &HarvestResult{NewOffset: fromOffset}

	for {
		line, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		eof := err != nil
		if eof && (!final || len(line) == 0) {
			break
		}
		result.NewOffset += int64(len(line))

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if len(line) > maxLine || line[0] != '{' || !json.Valid(line) {
			result.Skipped++
			continue
		}

		entry, err := model.DecodeEntry(line)
		if err != nil {
			result.Skipped++
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}
