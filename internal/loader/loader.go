// Package loader reads and writes credential lists in text and CSV form.
//
// Text files carry one entry per line, either "identifier:password" or a
// bare password. CSV files carry identifier/password columns with an
// optional header row. Malformed lines are skipped and counted rather
// than failing the whole file.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patchline/passforge/internal/common"
)

// Entry is one credential pair. Identifier is empty for bare password lines.
type Entry struct {
	Identifier string
	Password   string
}

// Result holds the entries read from a file plus the count of lines
// that could not be parsed.
type Result struct {
	Entries []Entry
	Skipped int
}

// Loader reads and writes credential files.
type Loader struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader creates a credential file loader. A nil logger falls back
// to the default slog logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, now: time.Now}
}

// Load reads entries from path, choosing the format by extension
// (.csv is CSV, anything else is plain text).
func (l *Loader) Load(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("credential file %s: %w", path, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return l.LoadCSV(file)
	}
	return l.LoadText(file)
}

// LoadText reads "identifier:password" or bare password lines. Blank
// lines and comments starting with '#' are ignored without counting
// as skipped.
func (l *Loader) LoadText(r io.Reader) (*Result, error) {
	result := &Result{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			result.Entries = append(result.Entries, Entry{Password: line})
			continue
		}

		// Split on the first colon only so passwords may contain colons.
		identifier := strings.TrimSpace(line[:colon])
		password := strings.TrimSpace(line[colon+1:])
		if identifier == "" || password == "" {
			result.Skipped++
			l.logger.Debug("Skipping malformed line", "line", lineNumber)
			continue
		}
		result.Entries = append(result.Entries, Entry{Identifier: identifier, Password: password})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return result, nil
}

// LoadCSV reads identifier/password rows. A leading header row is
// detected and dropped. Single-column rows are treated as bare
// passwords.
func (l *Loader) LoadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &Result{}
	rowNumber := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rowNumber++

		if rowNumber == 1 && isHeaderRow(row) {
			continue
		}

		switch {
		case len(row) == 1:
			password := strings.TrimSpace(row[0])
			if password == "" {
				result.Skipped++
				continue
			}
			result.Entries = append(result.Entries, Entry{Password: password})
		case len(row) >= 2:
			identifier := strings.TrimSpace(row[0])
			password := strings.TrimSpace(row[1])
			if password == "" {
				result.Skipped++
				l.logger.Debug("Skipping malformed row", "row", rowNumber)
				continue
			}
			result.Entries = append(result.Entries, Entry{Identifier: identifier, Password: password})
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// Save writes entries to path in the format implied by its extension,
// creating parent directories as needed.
func (l *Loader) Save(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if err := l.SaveCSV(file, entries); err != nil {
			return err
		}
	} else if err := l.SaveText(file, entries); err != nil {
		return err
	}
	return file.Sync()
}

// SaveText writes entries as text, mirroring the input line shapes.
func (l *Loader) SaveText(w io.Writer, entries []Entry) error {
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "# passforge output\n")
	fmt.Fprintf(writer, "# Generated: %s\n", l.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(writer, "# Total entries: %d\n\n", len(entries))

	for _, entry := range entries {
		if entry.Identifier != "" {
			fmt.Fprintf(writer, "%s:%s\n", entry.Identifier, entry.Password)
		} else {
			fmt.Fprintln(writer, entry.Password)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// SaveCSV writes entries as CSV with a header row.
func (l *Loader) SaveCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"identifier", "password"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write([]string{entry.Identifier, entry.Password}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	switch first {
	case "identifier", "email", "user", "username", "password":
		return true
	}
	return false
}
