package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"BezierBoard/internal/config"
)

// RunApp opens the editor window and blocks until it is closed. A non-empty
// shareLink is shown so that others can join the board. started, if not nil,
// runs once the application is up; background work that updates the editor
// must not begin before that.
func RunApp(cfg config.Config, editor *EditorWidget, shareLink string, started func()) {
	myApp := app.New()
	if started != nil {
		myApp.Lifecycle().SetOnStarted(started)
	}
	myWindow := myApp.NewWindow(cfg.Title)
	myWindow.Resize(fyne.NewSize(float32(cfg.Width), float32(cfg.Height)))

	toolbar := NewToolbar(editor, myWindow)

	var footer fyne.CanvasObject = editor.StatusBar()
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		footer = container.NewBorder(nil, nil, widget.NewLabel("Share:"), editor.StatusBar(), link)
	}

	content := container.NewBorder(toolbar, footer, nil, nil, editor)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}
