package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/renderers/jsonview"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/submit"
)

type options struct {
	schemaPath  string
	renderer    string
	format      string
	output      string
	prefill     string
	validateAll bool
	verbose     bool
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var opts options
	flag.StringVar(&opts.schemaPath, "schema", config.SchemaPath(), "form schema (JSON or YAML)")
	flag.StringVar(&opts.renderer, "renderer", config.Renderer(), "renderer to use: tui runs the form interactively, html or json prints the first step")
	flag.StringVar(&opts.format, "format", config.Format(), "result format: json, yaml, form or pretty")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&opts.prefill, "prefill", "", "JSON file with initial answers keyed by field id")
	flag.BoolVar(&opts.validateAll, "validate-all", false, "validate every step on submit")
	flag.BoolVar(&opts.verbose, "verbose", config.Verbose(), "log engine events to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts)
	stop()

	switch {
	case err == nil:
		if opts.output != "" {
			fmt.Fprintf(os.Stderr, "Output written to %s\n", opts.output)
		}
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(os.Stderr, "Aborted.")
		os.Exit(130)
	default:
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) (err error) {
	resultFormat, err := submit.ParseFormat(opts.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	s, err := formflow.LoadSchemaFile(ctx, opts.schemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	out := io.Writer(os.Stdout)
	if opts.output != "" {
		f, createErr := os.Create(opts.output)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		out = f
	}

	engineOptions := []engine.Option{engine.WithSubmitter(submit.NewWriter(out, resultFormat))}
	if opts.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		engineOptions = append(engineOptions, engine.WithLogger(logger))
	}
	if opts.validateAll {
		engineOptions = append(engineOptions, engine.WithValidateAllOnSubmit())
	}
	if opts.prefill != "" {
		values, err := readPrefill(opts.prefill)
		if err != nil {
			return fmt.Errorf("read prefill: %w", err)
		}
		engineOptions = append(engineOptions, engine.WithPrefill(values))
	}

	eng, err := formflow.NewEngine(s, engineOptions...)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if opts.renderer == "tui" {
		r, err := tui.New()
		if err != nil {
			return fmt.Errorf("configure renderer: %w", err)
		}
		return r.Run(ctx, eng)
	}

	registry, err := staticRenderers()
	if err != nil {
		return fmt.Errorf("configure renderers: %w", err)
	}
	r, err := registry.Get(opts.renderer)
	if err != nil {
		return fmt.Errorf("unknown renderer (tui is also available): %w", err)
	}
	markup, err := r.Render(ctx, eng.View())
	if err != nil {
		return fmt.Errorf("render step: %w", err)
	}
	if _, err := out.Write(markup); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func staticRenderers() (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(htmlRenderer, jsonview.New(jsonview.WithIndent("  ")))
}

func readPrefill(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return values, nil
}
