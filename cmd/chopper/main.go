// Package main provides the entry point for the transcript chopper CLI.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/birkheadc/transcript-chopper/internal/bootstrap"
	"github.com/birkheadc/transcript-chopper/internal/chop"
	"github.com/birkheadc/transcript-chopper/internal/config"
	"github.com/birkheadc/transcript-chopper/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	audioPath := flag.String("audio", "", "path to the source audio file (wav)")
	transcriptPath := flag.String("transcript", "", "path to the transcript text file")
	outName := flag.String("out", "", "archive file name (default: <audio name>.zip)")
	emitClips := flag.Bool("clips", false, "also write each sliced clip to the temp directory")
	extraFields := flag.String("extra", "", "comma-separated extra field names added to every card")
	flag.Parse()

	if *audioPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -audio flag")
	}

	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting transcript chopper",
		slog.String("audio", *audioPath),
		slog.String("transcript", *transcriptPath),
		slog.String("format", cfg.Format),
		slog.String("naming_scheme", cfg.NamingScheme),
		slog.Int("sensitivity", cfg.Sensitivity),
		slog.Int("target_length", cfg.TargetLength),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// One run per invocation; an interrupt abandons the run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := deps.Store.ReadSource(ctx, *audioPath)
	if err != nil {
		return err
	}

	var transcriptText string
	if *transcriptPath != "" {
		data, err := os.ReadFile(*transcriptPath)
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}
		transcriptText = string(data)
	}

	scheme, err := cfg.Scheme()
	if err != nil {
		return err
	}
	format, err := cfg.ArchiveFormat()
	if err != nil {
		return err
	}

	in := chop.Input{
		Source:     source,
		Transcript: transcriptText,
		Segment:    cfg.SegmentOpts(),
		Scheme:     scheme,
		Format:     format,
		Separator:  cfg.Separator,
	}
	if *extraFields != "" {
		for _, name := range strings.Split(*extraFields, ",") {
			if name = strings.TrimSpace(name); name != "" {
				in.ExtraFields = append(in.ExtraFields, name)
			}
		}
	}

	out, err := deps.Chopper.Chop(ctx, in)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	name := *outName
	if name == "" {
		base := strings.TrimSuffix(source.Name, filepath.Ext(source.Name))
		name = base + ".zip"
	}

	path, err := deps.Store.WriteArchive(ctx, name, out.Archive)
	if err != nil {
		return err
	}
	logger.Info("archive written",
		slog.String("path", path),
		slog.Int("cards", out.Cards),
	)

	if *emitClips {
		paths, err := writeClips(ctx, deps.Store, out.Clips)
		if err != nil {
			return err
		}
		logger.Info("clips written",
			slog.Int("count", len(paths)),
		)
	}

	return nil
}

// writeClips writes each clip to the temp directory for the caller to
// pick up. A failure part-way removes the clips already written so a
// failed run leaves nothing behind.
func writeClips(ctx context.Context, store storage.Storage, clips [][]byte) ([]string, error) {
	var paths []string
	for i, clip := range clips {
		p, err := store.SaveTemp(ctx, fmt.Sprintf("clip_%03d", i), bytes.NewReader(clip))
		if err != nil {
			_ = store.CleanupTemp(ctx, paths)
			return nil, fmt.Errorf("write clip %d: %w", i, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
