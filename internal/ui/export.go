package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"BezierBoard/internal/export"
	"BezierBoard/internal/logging"
)

func showExportPDF(editor *EditorWidget, win fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			editor.SetStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		if writer == nil {
			return
		}
		defer closeWriter(writer)

		opts := export.DefaultPDFOptions
		opts.Steps = editor.composer.Steps
		opts.MarkerSize = editor.composer.MarkerSize
		opts.Curve = editor.composer.Palette.Curve

		points := editor.Session().Points()
		if err := export.WritePDF(writer, points, opts); err != nil {
			logging.Logger().Warn("PDF export failed", "uri", writer.URI().String(), "err", err)
			editor.SetStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		editor.SetStatus(fmt.Sprintf("Exported %d points to %s", len(points), writer.URI().Name()))
	}, win)
	d.SetFileName("curve.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

func showExportPNG(editor *EditorWidget, win fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			editor.SetStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		if writer == nil {
			return
		}
		defer closeWriter(writer)

		if err := editor.Snapshot().EncodePNG(writer); err != nil {
			logging.Logger().Warn("PNG export failed", "uri", writer.URI().String(), "err", err)
			editor.SetStatus(fmt.Sprintf("Export failed: %v", err))
			return
		}
		editor.SetStatus("Saved " + writer.URI().Name())
	}, win)
	d.SetFileName("curve.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}

func closeWriter(w fyne.URIWriteCloser) {
	if err := w.Close(); err != nil {
		logging.Logger().Warn("closing export file", "err", err)
	}
}
