/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scrapbook/internal/canvas"
	"scrapbook/internal/config"
	"scrapbook/internal/crash"
	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
	"scrapbook/internal/script"
	"scrapbook/internal/telemetry"
	"scrapbook/internal/tui"
	"scrapbook/internal/ui"
	"scrapbook/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Scrapbook canvas editor")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  scrapbook version|-v|--version     Show version")
	_, _ = fmt.Fprintln(w, "  scrapbook edit                     Launch the editor configured in general.host")
	_, _ = fmt.Fprintln(w, "  scrapbook tui                      Launch the terminal editor")
	_, _ = fmt.Fprintln(w, "  scrapbook ui                       Launch desktop UI (build with -tags fyne for full UI)")
	_, _ = fmt.Fprintln(w, "  scrapbook run <script.json>         Replay an editor script and print the resulting pages")
	_, _ = fmt.Fprintln(w, "  scrapbook schema                   Print the JSON Schema for editor scripts")
	_, _ = fmt.Fprintln(w, "  scrapbook config                   Print the effective configuration")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, "Scrapbook canvas editor")
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "schema":
		_, _ = stdout.Write(script.Schema())
		return 0
	case "", "help", "-h", "--help":
		usage(stdout)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		// keep going on defaults; the file can be fixed while the editor runs
		_, _ = fmt.Fprintln(stderr, "Warning:", err)
	}
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "Warning: invalid config:", err)
	}
	if cmd == "edit" {
		cmd = cfg.General.Host
	}
	initLogging(cfg, cmd == "tui")
	l := applog.WithComponent("cli")
	l.Debug("start", slog.String("cmd", cmd), slog.Int("args", len(args)))

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = cfg.General.TelemetryOptIn
	telemetry.NewDefault(tcfg)
	defer telemetry.Flush(ctx)

	var opts []canvas.Option
	if cmd == "ui" {
		// hit-testing has to agree with the font fyne draws text in
		opts = append(opts, canvas.WithMeasurer(ui.TextMeasurer()))
	}
	ctl := newController(cfg, opts...)
	defer crash.Recover(&crash.Info{Host: cmd, Document: ctl.Document().Snapshot})

	switch cmd {
	case "run":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stderr, "run requires <script.json>")
			usage(stderr)
			return 2
		}
		return runScript(ctx, ctl, cfg, args[1], stdout, stderr)
	case "tui":
		telemetry.Event("session_started", map[string]any{"host": "tui"})
		if err := tui.Run(ctx, ctl, tui.Options{Extensions: cfg.Picker.Extensions}); err != nil {
			l.Error("tui failed", slog.Any("err", err))
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "ui":
		telemetry.Event("session_started", map[string]any{"host": "ui"})
		if err := ui.Run(ctl, ui.Options{Extensions: cfg.Picker.Extensions}); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "config":
		if err := printConfig(stdout, cfg); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
}

// initLogging applies the logging section of the config. The terminal
// editor owns the screen, so its console output is discarded.
func initLogging(cfg config.AppConfig, quietConsole bool) {
	opts := applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	}
	if quietConsole {
		opts.Console = io.Discard
	}
	applog.Init(opts)
}

func newController(cfg config.AppConfig, opts ...canvas.Option) *editor.Controller {
	opts = append([]canvas.Option{
		canvas.WithDefaults(canvas.Defaults{
			Text:       cfg.Editor.DefaultText,
			ImageWidth: cfg.Editor.ImageWidth,
		}),
		canvas.WithDefaultPosition(domain.Point{X: cfg.Editor.DefaultX, Y: cfg.Editor.DefaultY}),
	}, opts...)
	doc := canvas.New(opts...)
	return editor.New(doc, editor.WithEvents(telemetry.Event))
}

func runScript(ctx context.Context, ctl *editor.Controller, cfg config.AppConfig, path string, stdout, stderr io.Writer) int {
	l := applog.WithComponent("cli")
	data, err := os.ReadFile(path)
	if err != nil {
		l.Error("read script failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	s, errs := script.Parse(data)
	if len(errs) > 0 {
		for _, e := range errs {
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", path, e)
		}
		return 1
	}
	r := &script.Runner{Controller: ctl, Dir: filepath.Dir(path), Extensions: cfg.Picker.Extensions}
	doc, outcomes, err := r.Run(ctx, s)
	if err != nil {
		l.Error("script failed", slog.Any("err", err))
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	noops := 0
	for _, o := range outcomes {
		if !o.Changed {
			noops++
		}
	}
	summarize(stdout, doc)
	_, _ = fmt.Fprintf(stdout, "Steps: %d (%d without effect)\n", len(outcomes), noops)
	return 0
}

// summarize prints one line per page and per element.
func summarize(w io.Writer, doc domain.Document) {
	_, _ = fmt.Fprintf(w, "Pages: %d\n", len(doc.Pages))
	for i, p := range doc.Pages {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", domain.PageLabel(i), p.ID)
		if len(p.Elements) == 0 {
			_, _ = fmt.Fprintln(w, "  (empty)")
		}
		for _, el := range p.Elements {
			pos := el.Pos()
			switch e := el.(type) {
			case *domain.TextElement:
				_, _ = fmt.Fprintf(w, "  text  %s (%g, %g) %q\n", e.ID, pos.X, pos.Y, e.Content)
			case *domain.ImageElement:
				_, _ = fmt.Fprintf(w, "  image %s (%g, %g) %gx%g x%.4f %s\n", e.ID, pos.X, pos.Y,
					e.Dimensions.Width, e.Dimensions.Height, e.Scale, e.SourceURI)
			}
		}
	}
}

// printConfig writes the effective config as YAML followed by the
// settings currently forced by environment variables.
func printConfig(w io.Writer, cfg config.AppConfig) error {
	path, _ := config.Path()
	_, _ = fmt.Fprintf(w, "# %s\n", path)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var overridden []string
	for _, key := range []string{
		"general.telemetry_opt_in", "general.host", "editor.image_width",
		"logging.level", "logging.format", "logging.source", "logging.file",
	} {
		if env, ok := config.EnvOverrideFor(key); ok {
			overridden = append(overridden, fmt.Sprintf("# %s overridden by %s", key, env))
		}
	}
	if len(overridden) > 0 {
		_, _ = fmt.Fprintln(w, strings.Join(overridden, "\n"))
	}
	return nil
}
