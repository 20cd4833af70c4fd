/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package picker

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestFilePickerReadsNaturalSize(t *testing.T) {
	path := writePNG(t, t.TempDir(), 64, 48)
	res, err := Path(path, ".png").Pick(context.Background())
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if res.Canceled || res.NaturalWidth != 64 || res.NaturalHeight != 48 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.HasPrefix(res.URI, "file://") || !strings.HasSuffix(res.URI, "/photo.png") {
		t.Fatalf("unexpected URI: %q", res.URI)
	}
}

func TestFilePickerEmptyPathIsCancel(t *testing.T) {
	res, err := Path("  ").Pick(context.Background())
	if err != nil || !res.Canceled {
		t.Fatalf("expected cancellation, got %+v err=%v", res, err)
	}
}

func TestFilePickerDoneContextIsCancel(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Path(path).Pick(ctx)
	if err != nil || !res.Canceled {
		t.Fatalf("expected cancellation, got %+v err=%v", res, err)
	}
}

func TestFilePickerPromptCanceled(t *testing.T) {
	p := FilePicker{Prompt: func(context.Context) (string, error) { return "", context.Canceled }}
	res, err := p.Pick(context.Background())
	if err != nil || !res.Canceled {
		t.Fatalf("expected cancellation, got %+v err=%v", res, err)
	}
}

func TestFilePickerRejectsExtension(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 4)
	_, err := Path(path, ".jpg").Pick(context.Background())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFilePickerMissingFile(t *testing.T) {
	_, err := Path(filepath.Join(t.TempDir(), "nope.png")).Pick(context.Background())
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDecodeBMPViaXImage(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 10))); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	res, err := Decode("mem://a.bmp", &buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.NaturalWidth != 30 || res.NaturalHeight != 10 {
		t.Fatalf("unexpected size: %+v", res)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	if _, err := Decode("mem://x", strings.NewReader("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFuncAdapter(t *testing.T) {
	var p Picker = Func(func(context.Context) (Result, error) { return Canceled(), nil })
	res, _ := p.Pick(context.Background())
	if !res.Canceled {
		t.Fatalf("expected canceled result")
	}
}
