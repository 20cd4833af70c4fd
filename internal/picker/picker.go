/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package picker is the boundary to whatever lets the user choose an image.
// A pick yields the image's URI and natural pixel size, or a cancellation.
package picker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	applog "scrapbook/internal/log"
)

// ErrUnsupported is returned for files whose extension is not allowed.
var ErrUnsupported = errors.New("unsupported image type")

// Result is the outcome of one pick. When Canceled is true the other fields are zero.
type Result struct {
	URI           string
	NaturalWidth  int
	NaturalHeight int
	Canceled      bool
}

// Canceled is the result of a dismissed picker.
func Canceled() Result { return Result{Canceled: true} }

// Picker asks the user for an image. Implementations block until the user
// decides or ctx is done; a done context yields a canceled result.
type Picker interface {
	Pick(ctx context.Context) (Result, error)
}

// Func adapts a function to Picker.
type Func func(ctx context.Context) (Result, error)

func (f Func) Pick(ctx context.Context) (Result, error) { return f(ctx) }

// Decode reads the natural size of the image in r without decoding pixels.
func Decode(uri string, r io.Reader) (Result, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Result{}, fmt.Errorf("decode image config %s: %w", uri, err)
	}
	applog.WithComponent("picker").Debug("image picked", slog.String("uri", uri),
		slog.String("format", format), slog.Int("w", cfg.Width), slog.Int("h", cfg.Height))
	return Result{URI: uri, NaturalWidth: cfg.Width, NaturalHeight: cfg.Height}, nil
}

// FileURI turns a filesystem path into a file:// URI.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// FilePicker picks an image from the local filesystem. Prompt supplies the
// path; an empty path means the user canceled.
type FilePicker struct {
	Prompt func(ctx context.Context) (string, error)
	// Extensions limits the accepted files; empty accepts anything decodable.
	Extensions []string
}

// Path returns a FilePicker that always offers path.
func Path(path string, extensions ...string) FilePicker {
	return FilePicker{
		Prompt:     func(context.Context) (string, error) { return path, nil },
		Extensions: extensions,
	}
}

func (p FilePicker) Pick(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Canceled(), nil
	}
	if p.Prompt == nil {
		return Canceled(), nil
	}
	path, err := p.Prompt(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Canceled(), nil
		}
		return Result{}, fmt.Errorf("prompt for image: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" || ctx.Err() != nil {
		return Canceled(), nil
	}
	if len(p.Extensions) > 0 && !slices.Contains(p.Extensions, strings.ToLower(filepath.Ext(path))) {
		return Result{}, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(FileURI(path), f)
}
