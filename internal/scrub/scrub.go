// Package scrub runs the masker over files, directories, and streams.
package scrub

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/snmask/snmask/internal/logger"
	"github.com/snmask/snmask/internal/masker"
)

// Scrubber applies a Masker to whole files or line streams.
type Scrubber struct {
	masker *masker.Masker
	log    *logger.Logger
}

// New creates a Scrubber.
func New(m *masker.Masker, log *logger.Logger) *Scrubber {
	return &Scrubber{
		masker: m,
		log:    log.WithComponent("scrub"),
	}
}

// FileSummary reports the outcome of one processed file.
type FileSummary struct {
	Input   string
	Output  string
	Matches int
}

// DirSummary reports the outcome of a directory pass.
type DirSummary struct {
	Files   int
	Failed  int
	Matches int
}

// ProcessFile reads the input file, masks it, and writes the result to the
// output path. Masking completes in memory before the output file is
// created, so a failure never leaves a partially masked file behind. An
// empty input yields an empty output and succeeds.
func (s *Scrubber) ProcessFile(inPath, outPath string) (*FileSummary, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, &ReadError{Path: inPath, Err: err}
	}

	// Sanitized copies of restricted logs must stay restricted
	mode := os.FileMode(0o644)
	if info, err := os.Stat(inPath); err == nil {
		mode = info.Mode().Perm()
	}

	result := s.masker.Mask(string(data))

	if err := os.WriteFile(outPath, []byte(result.Output), mode); err != nil {
		return nil, &WriteError{Path: outPath, Err: err}
	}

	s.log.Info("Processed file",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("matches", result.Matches()),
	)

	return &FileSummary{
		Input:   inPath,
		Output:  outPath,
		Matches: result.Matches(),
	}, nil
}

// ProcessDir masks every regular file directly under inDir into outDir,
// keeping file names. A failing file is logged and skipped; the pass
// continues. The output directory is created if missing.
func (s *Scrubber) ProcessDir(inDir, outDir string) (*DirSummary, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, &ReadError{Path: inDir, Err: err}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &WriteError{Path: outDir, Err: err}
	}

	summary := &DirSummary{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		in := filepath.Join(inDir, entry.Name())
		out := filepath.Join(outDir, entry.Name())

		fs, err := s.ProcessFile(in, out)
		if err != nil {
			summary.Failed++
			s.log.Error("Skipping file", zap.String("file", in), zap.Error(err))
			continue
		}

		summary.Files++
		summary.Matches += fs.Matches
	}

	s.log.Info("Directory pass complete",
		zap.String("input_dir", inDir),
		zap.String("output_dir", outDir),
		zap.Int("files", summary.Files),
		zap.Int("failed", summary.Failed),
		zap.Int("matches", summary.Matches),
	)

	return summary, nil
}

// ProcessStream masks r line by line into w. Line structure is preserved.
func (s *Scrubber) ProcessStream(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Log lines can be huge
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		result := s.masker.Mask(scanner.Text())
		if _, err := fmt.Fprintln(w, result.Output); err != nil {
			return &WriteError{Path: "stdout", Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		return &ReadError{Path: "stdin", Err: err}
	}

	return nil
}
