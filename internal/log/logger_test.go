/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// lastJSONLine returns the last non-empty line of b decoded as a JSON object.
func lastJSONLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

// TestInitAndStructuredLoggingToFile verifies that Init with a file handler writes JSON logs
// and that static and contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "scrapbook.log")

	Init(Options{Level: "debug", Format: "json", File: fpath, Console: &bytes.Buffer{}})

	l := WithOperation(WithComponent("canvas"), "add_text")
	l.Info("element added", slog.String("id", "element-1"))

	time.Sleep(50 * time.Millisecond)

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSONLine(t, b)
	if m["app"] != "scrapbook" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "canvas" || m["op"] != "add_text" {
		t.Fatalf("component/op mismatch: %v %v", m["component"], m["op"])
	}
	if m["msg"] != "element added" || m["id"] != "element-1" {
		t.Fatalf("record mismatch: %v", m)
	}
}

func TestWithPageAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Console: &buf})

	ctx := WithPage(context.Background(), 3)
	WithComponent("editor").InfoContext(ctx, "page switched")

	m := lastJSONLine(t, buf.Bytes())
	if got, ok := m["page"].(float64); !ok || got != 3 {
		t.Fatalf("page attr = %v, want 3", m["page"])
	}
	if _, ok := m["element"]; ok {
		t.Fatalf("element attr should be absent: %v", m)
	}

	ctx = WithElement(ctx, "element-7")
	WithComponent("editor").InfoContext(ctx, "element selected")
	m = lastJSONLine(t, buf.Bytes())
	if m["element"] != "element-7" || m["page"] != float64(3) {
		t.Fatalf("context attrs = %v", m)
	}
}

func TestSetLevelFiltersRunningLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Console: &buf})
	l := WithComponent("editor")

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %q", buf.String())
	}
	SetLevel("debug")
	l.Debug("shown")
	if m := lastJSONLine(t, buf.Bytes()); m["msg"] != "shown" {
		t.Fatalf("msg = %v, want shown", m["msg"])
	}
	SetLevel("info")
}

func TestDiscardDropsEverything(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should not be enabled")
	}
	l.Error("ignored")
}
