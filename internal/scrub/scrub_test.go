package scrub

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snmask/snmask/internal/logger"
	"github.com/snmask/snmask/internal/masker"
)

func testScrubber(t *testing.T) *Scrubber {
	t.Helper()
	rules, err := masker.Compile(nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return New(masker.NewSeeded(rules, 1, logger.Nop()), logger.Nop())
}

func TestProcessFile(t *testing.T) {
	t.Run("masks serials in place", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "device.log")
		out := filepath.Join(dir, "device.clean.log")

		input := "boot ok\nserial SN:ABCDEF1234 detected\ndone\n"
		if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		summary, err := s.ProcessFile(in, out)
		if err != nil {
			t.Fatalf("ProcessFile failed: %v", err)
		}
		if summary.Matches != 1 {
			t.Errorf("Expected one match, got %d", summary.Matches)
		}

		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != len(input) {
			t.Errorf("Output length %d, input length %d", len(got), len(input))
		}
		if !strings.HasPrefix(string(got), "boot ok\nserial ") {
			t.Errorf("Text outside the match changed: %q", got)
		}
		if strings.Count(string(got), "\n") != 3 {
			t.Errorf("Line structure changed: %q", got)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "empty.txt")
		out := filepath.Join(dir, "empty.out")
		if err := os.WriteFile(in, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		if _, err := s.ProcessFile(in, out); err != nil {
			t.Fatalf("ProcessFile failed: %v", err)
		}

		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty output, got %d bytes", len(got))
		}
	})

	t.Run("preserves input permissions", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "secrets.log")
		out := filepath.Join(dir, "secrets.clean.log")
		if err := os.WriteFile(in, []byte("serial SN:ABCDEF1234\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		if _, err := s.ProcessFile(in, out); err != nil {
			t.Fatalf("ProcessFile failed: %v", err)
		}

		info, err := os.Stat(out)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("Expected output mode 0600, got %o", info.Mode().Perm())
		}
	})

	t.Run("missing input leaves no output behind", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "never.out")

		s := testScrubber(t)
		_, err := s.ProcessFile(filepath.Join(dir, "missing.txt"), out)
		if err == nil {
			t.Fatal("Expected an error for a missing input")
		}

		var readErr *ReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("Expected *ReadError, got %T", err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Error("Output file must not be created when reading fails")
		}
	})

	t.Run("unwritable output reports a write error", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "in.txt")
		if err := os.WriteFile(in, []byte("SN:ABCDEF1234"), 0o644); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		_, err := s.ProcessFile(in, filepath.Join(dir, "no-such-dir", "out.txt"))

		var writeErr *WriteError
		if !errors.As(err, &writeErr) {
			t.Fatalf("Expected *WriteError, got %T (%v)", err, err)
		}
	})
}

func TestProcessDir(t *testing.T) {
	t.Run("masks every regular file", func(t *testing.T) {
		inDir := t.TempDir()
		outDir := filepath.Join(t.TempDir(), "clean")

		files := map[string]string{
			"a.log": "serial SN:ABCDEF1234\n",
			"b.log": "nothing sensitive here\n",
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(inDir, name), []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Mkdir(filepath.Join(inDir, "sub"), 0o755); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		summary, err := s.ProcessDir(inDir, outDir)
		if err != nil {
			t.Fatalf("ProcessDir failed: %v", err)
		}
		if summary.Files != 2 || summary.Failed != 0 {
			t.Errorf("Expected 2 files and 0 failures, got %+v", summary)
		}
		if summary.Matches != 1 {
			t.Errorf("Expected one match across the pass, got %d", summary.Matches)
		}

		for name, content := range files {
			got, err := os.ReadFile(filepath.Join(outDir, name))
			if err != nil {
				t.Fatalf("Missing output for %s: %v", name, err)
			}
			if len(got) != len(content) {
				t.Errorf("%s: output length %d, input length %d", name, len(got), len(content))
			}
		}
	})

	t.Run("continues past a failing file", func(t *testing.T) {
		inDir := t.TempDir()
		outDir := t.TempDir()

		good := "serial SN:ABCDEF1234\n"
		if err := os.WriteFile(filepath.Join(inDir, "bad.log"), []byte("unwritable\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(inDir, "good.log"), []byte(good), 0o644); err != nil {
			t.Fatal(err)
		}
		// A directory squatting on the output path makes bad.log's write fail
		if err := os.Mkdir(filepath.Join(outDir, "bad.log"), 0o755); err != nil {
			t.Fatal(err)
		}

		s := testScrubber(t)
		summary, err := s.ProcessDir(inDir, outDir)
		if err != nil {
			t.Fatalf("ProcessDir failed: %v", err)
		}
		if summary.Failed != 1 {
			t.Errorf("Expected 1 failure, got %d", summary.Failed)
		}
		if summary.Files != 1 {
			t.Errorf("Expected 1 processed file, got %d", summary.Files)
		}

		got, err := os.ReadFile(filepath.Join(outDir, "good.log"))
		if err != nil {
			t.Fatalf("good.log was not masked after the failure: %v", err)
		}
		if len(got) != len(good) {
			t.Errorf("good.log output length %d, input length %d", len(got), len(good))
		}
	})

	t.Run("missing input directory", func(t *testing.T) {
		s := testScrubber(t)
		_, err := s.ProcessDir(filepath.Join(t.TempDir(), "absent"), t.TempDir())

		var readErr *ReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("Expected *ReadError, got %T", err)
		}
	})
}

func TestProcessStream(t *testing.T) {
	input := "ok line\nserial SN:ABCDEF1234 here\nlast line\n"
	var out bytes.Buffer

	s := testScrubber(t)
	if err := s.ProcessStream(strings.NewReader(input), &out); err != nil {
		t.Fatalf("ProcessStream failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), out.String())
	}
	if lines[0] != "ok line" || lines[2] != "last line" {
		t.Errorf("Lines without matches changed: %q", lines)
	}
	if len(lines[1]) != len("serial SN:ABCDEF1234 here") {
		t.Errorf("Masked line changed length: %q", lines[1])
	}
	if lines[1] == "serial SN:ABCDEF1234 here" {
		t.Errorf("Serial was not masked: %q", lines[1])
	}
}
