package main

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"relaydash/internal/logstream"
	"relaydash/internal/pages"
)

// tailer is the page-scoped log stream; navigation tears it down.
var tailer *logstream.Tailer

// stopStreams is called on every navigation so long-lived connections never
// outlive the page that opened them.
func stopStreams() {
	if tailer != nil {
		tailer.Stop()
		tailer = nil
	}
	if onboardRunner != nil {
		onboardRunner.Stop()
	}
}

func buildLogsPage() (fyne.CanvasObject, pages.InitFunc) {
	linesBox := container.NewVBox()
	scroll := container.NewVScroll(linesBox)

	appendLine := func(line string) {
		l := widget.NewLabel(line)
		l.Wrapping = fyne.TextWrapWord
		linesBox.Add(l)
		scroll.ScrollToBottom()
	}

	tailer = &logstream.Tailer{
		URL:         client.StreamURL("/ws/logs"),
		Delay:       cfg.Stream.ReconnectDelay,
		DialTimeout: cfg.Stream.DialTimeout,
		Log:         logger,
		Append:      appendLine,
	}

	init := func(context.Context) {
		// The tailer manages its own lifetime; the dispatcher's request
		// context would kill it as soon as the page load returned.
		tailer.Start(context.Background())
	}
	return scroll, init
}
