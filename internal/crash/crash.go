/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a logged error, a crash report file and an
// opt-in upload.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"scrapbook/internal/domain"
	applog "scrapbook/internal/log"
	"scrapbook/internal/telemetry"
	"scrapbook/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Info describes the running session for the report. All fields are optional.
type Info struct {
	// Dir receives the report; defaults to os.TempDir().
	Dir string
	// Host is the front end that was running, e.g. "tui".
	Host string
	// Document returns the document being edited. Only page and element
	// counts go into the report.
	Document func() domain.Document
}

// Recover captures a panic, logs it with its stack, writes a report file and
// exits with status 2.
//
// Usage: defer crash.Recover(&crash.Info{Host: "tui"})
func Recover(info *Info) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(info, r, stack)
		if err != nil {
			l.Error("crash report not written", slog.Any("err", err), slog.String("path", reportPath))
		}
		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// the crash upload runs in the background; give it a bounded chance to finish
		telemetry.Flush(context.Background())
		exitFn(2)
	}
}

func writeReport(info *Info, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if info != nil && info.Dir != "" {
		dir = info.Dir
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("scrapbook-crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Scrapbook Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if info != nil {
		if info.Host != "" {
			_, _ = fmt.Fprintf(&buf, "Host: %s\n", info.Host)
		}
		if info.Document != nil {
			writeDocumentSummary(&buf, info.Document)
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

// writeDocumentSummary records page and element counts. The document
// callback may itself panic on corrupted state; that is caught and noted.
func writeDocumentSummary(buf *bytes.Buffer, snapshot func() domain.Document) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(buf, "Document: unavailable (%v)\n", r)
		}
	}()
	doc := snapshot()
	_, _ = fmt.Fprintf(buf, "Pages: %d\n", len(doc.Pages))
	for i, p := range doc.Pages {
		var texts, images int
		for _, el := range p.Elements {
			switch el.(type) {
			case *domain.TextElement:
				texts++
			case *domain.ImageElement:
				images++
			}
		}
		_, _ = fmt.Fprintf(buf, "  [%d] %s: %d text, %d image\n", i, p.ID, texts, images)
	}
}
