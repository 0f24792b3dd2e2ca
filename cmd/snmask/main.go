package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/snmask/snmask/internal/config"
	"github.com/snmask/snmask/internal/logger"
	"github.com/snmask/snmask/internal/masker"
	"github.com/snmask/snmask/internal/scrub"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// patternList collects repeated -p flags, splitting comma-separated values.
type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ",")
}

func (p *patternList) Set(value string) error {
	for _, expr := range strings.Split(value, ",") {
		if expr = strings.TrimSpace(expr); expr != "" {
			*p = append(*p, expr)
		}
	}
	return nil
}

func main() {
	var patterns patternList
	var (
		inputPath   = flag.String("i", "", "Input file (directory with -batch/-watch; stdin when omitted)")
		outputPath  = flag.String("o", "", "Output file (directory with -batch/-watch; stdout when omitted)")
		configPath  = flag.String("config", "", "Path to configuration file")
		debug       = flag.Bool("d", false, "Enable debug logging")
		batchMode   = flag.Bool("batch", false, "Process every file in the input directory")
		watchMode   = flag.Bool("watch", false, "Watch the input directory and mask files as they change")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Var(&patterns, "p", "Serial-number regex pattern (repeatable or comma-separated; built-in defaults when absent)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("snmask %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if (*batchMode || *watchMode) && (*inputPath == "" || *outputPath == "") {
		usage("-batch and -watch require both -i and -o directories")
	}
	if (*inputPath == "") != (*outputPath == "") {
		usage("-i and -o must be given together")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Flag patterns win over config-file patterns; both fall back to the
	// built-in defaults inside Compile.
	exprs := []string(patterns)
	if len(exprs) == 0 {
		exprs = cfg.Masking.Patterns
	}

	rules, err := masker.Compile(exprs)
	if err != nil {
		log.Fatal("Invalid pattern set", zap.Error(err))
	}

	var m *masker.Masker
	if cfg.Masking.Seed != 0 {
		m = masker.NewSeeded(rules, cfg.Masking.Seed, log.WithComponent("masker"))
	} else {
		m = masker.New(rules, log.WithComponent("masker"))
	}

	scrubber := scrub.New(m, log)

	switch {
	case *watchMode:
		log.Info("Starting snmask in watch mode",
			zap.String("version", version),
			zap.String("input_dir", *inputPath),
			zap.String("output_dir", *outputPath),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			log.Info("Shutdown signal received", zap.String("signal", sig.String()))
			cancel()
		}()

		if err := scrubber.Watch(ctx, *inputPath, *outputPath); err != nil {
			log.Fatal("Watch failed", zap.Error(err))
		}

	case *batchMode:
		summary, err := scrubber.ProcessDir(*inputPath, *outputPath)
		if err != nil {
			log.Fatal("Batch processing failed", zap.Error(err))
		}
		if summary.Failed > 0 {
			log.Fatal("Batch completed with failures", zap.Int("failed", summary.Failed))
		}

	case *inputPath != "":
		if _, err := scrubber.ProcessFile(*inputPath, *outputPath); err != nil {
			log.Fatal("Masking failed", zap.Error(err))
		}

	default:
		// Filter mode: stdin to stdout
		if err := scrubber.ProcessStream(os.Stdin, os.Stdout); err != nil {
			log.Fatal("Stream masking failed", zap.Error(err))
		}
	}
}

func usage(reason string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n\n", reason)
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s -i device.log -o device.clean.log\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -i device.log -o clean.log -p 'SN-[0-9]{8}' -p '[A-F0-9]{12}'\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -batch -i ./logs -o ./clean\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -watch -i ./incoming -o ./clean\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  cat device.log | %s > clean.log\n", os.Args[0])
	os.Exit(1)
}
