//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"scrapbook/internal/crash"
	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
	"scrapbook/internal/picker"
	"scrapbook/internal/version"
)

// Run starts the fyne desktop editor over ctl and blocks until the window closes.
func Run(ctl *editor.Controller, opts Options) error {
	l := opts.Log
	if l == nil {
		l = applog.WithComponent("ui")
	}
	l.Info("starting UI")
	defer crash.Recover(&crash.Info{Host: "ui", Document: ctl.Document().Snapshot})

	fyneApp := app.NewWithID("scrapbook")
	w := fyneApp.NewWindow("Scrapbook")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 520)
	winH := prefs.IntWithFallback("window.height", 820)
	w.Resize(fyne.NewSize(float32(max(winW, 420)), float32(max(winH, 640))))

	ed := newEditorView(ctl, w, opts, l)

	home := container.NewVBox(
		widget.NewLabelWithStyle("Scrapbook", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Place text and photos on pages, drag them around and resize images with the scroll wheel."),
	)
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Home", theme.HomeIcon(), home),
		container.NewTabItemWithIcon("Create", theme.DocumentCreateIcon(), ed.content),
	)
	home.Add(widget.NewButtonWithIcon("Start creating", theme.ContentAddIcon(), func() { tabs.SelectIndex(1) }))
	w.SetContent(tabs)

	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", "Scrapbook "+version.String(), w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("Help", aboutItem)))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.ShowAndRun()
	return nil
}

// editorView is the Create screen: toolbar, page strip, canvas and the
// entry bar shown while a text element is being edited.
type editorView struct {
	ctl     *editor.Controller
	w       fyne.Window
	opts    Options
	log     *slog.Logger
	canvas  *PageCanvas
	pages   *fyne.Container
	entry   *widget.Entry
	editBar *fyne.Container
	status  *widget.Label
	content fyne.CanvasObject
	// element the entry was last seeded from
	editing string
}

func newEditorView(ctl *editor.Controller, w fyne.Window, opts Options, l *slog.Logger) *editorView {
	v := &editorView{ctl: ctl, w: w, opts: opts, log: l}
	v.canvas = NewPageCanvas(ctl)
	v.canvas.OnChange = v.sync
	v.pages = container.NewHBox()
	v.status = widget.NewLabel("Ready")

	v.entry = widget.NewMultiLineEntry()
	v.entry.SetPlaceHolder("Text")
	v.entry.OnChanged = func(s string) {
		if v.ctl.SetBuffer(s) {
			v.canvas.Refresh()
		}
	}
	done := widget.NewButtonWithIcon("Done", theme.ConfirmIcon(), func() {
		v.ctl.Submit()
		v.sync()
	})
	v.editBar = container.NewBorder(nil, nil, nil, done, v.entry)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			v.ctl.AddText()
			v.sync()
		}),
		widget.NewToolbarAction(theme.FileImageIcon(), v.pickImage),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if v.ctl.Delete() {
				v.sync()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() {
			v.ctl.AddPage()
			v.sync()
		}),
	)

	top := container.NewVBox(toolbar, container.NewHScroll(v.pages))
	bottom := container.NewVBox(v.editBar, v.status)
	v.content = container.NewBorder(top, bottom, nil, nil, v.canvas)
	v.sync()
	return v
}

// sync brings every widget in line with the controller after a change.
func (v *editorView) sync() {
	st := v.ctl.State()
	if st.Mode == editor.EditingText {
		if v.editing != st.ElementID {
			v.editing = st.ElementID
			v.entry.SetText(st.Buffer)
		}
		v.editBar.Show()
		if c := v.w.Canvas(); c != nil {
			c.Focus(v.entry)
		}
	} else {
		v.editing = ""
		v.editBar.Hide()
	}
	v.refreshPages()
	v.status.SetText(fmt.Sprintf("Page %s  ·  %s", domain.PageLabel(v.ctl.ActivePage()), st))
	v.canvas.Refresh()
}

func (v *editorView) refreshPages() {
	v.pages.Objects = nil
	for i := 0; i < v.ctl.Document().PageCount(); i++ {
		idx := i
		b := widget.NewButton(domain.PageLabel(i), func() {
			if v.ctl.SwitchPage(idx) {
				v.sync()
			}
		})
		if i == v.ctl.ActivePage() {
			b.Importance = widget.HighImportance
		}
		v.pages.Add(b)
	}
	v.pages.Refresh()
}

// pickImage commits any edit, then opens the file dialog. The result is
// applied to the page that was active when the dialog opened.
func (v *editorView) pickImage() {
	v.ctl.Submit()
	page := v.ctl.ActivePage()
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			v.log.Error("image dialog error", slog.Any("err", err))
			dialog.ShowError(err, v.w)
			return
		}
		if rc == nil {
			v.ctl.ApplyPick(page, picker.Canceled())
			v.sync()
			return
		}
		defer func() { _ = rc.Close() }()
		res, derr := picker.Decode(rc.URI().String(), rc)
		if derr != nil {
			v.log.Warn("image decode failed", slog.Any("err", derr), slog.String("uri", rc.URI().String()))
			dialog.ShowError(derr, v.w)
			return
		}
		if _, ok := v.ctl.ApplyPick(page, res); !ok {
			dialog.ShowInformation("Add Image", "The image has no usable size.", v.w)
		}
		v.sync()
	}, v.w)
	if exts := extensionFilter(v.opts.Extensions); len(exts) > 0 {
		fd.SetFilter(fstorage.NewExtensionFileFilter(exts))
	}
	fd.Show()
}
