package main

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"relaydash/internal/onboard"
)

// onboardRunner owns the single add-account connection for the whole app.
var onboardRunner *onboard.Runner

// onboardView wires onboard.Events to the dialog widgets. All the
// enable/disable/hide choreography the flow requires lives here; the state
// machine itself never touches a widget.
type onboardView struct {
	status    *widget.Label
	input     *widget.Entry
	submitBtn *widget.Button
	inputRow  *fyne.Container
	onSuccess func()
}

func (v *onboardView) PromptShown(text string) {
	v.status.SetText(text)
	v.input.SetText("")
	v.input.Enable()
	v.submitBtn.Enable()
	window.Canvas().Focus(v.input)
}

func (v *onboardView) Processing() {
	v.input.Disable()
	v.submitBtn.Disable()
	v.status.SetText("Processing...")
}

func (v *onboardView) Succeeded(msg string) {
	v.status.SetText(msg)
	v.inputRow.Hide()
	v.onSuccess()
}

func (v *onboardView) Failed(msg string) {
	v.status.SetText(msg)
	v.input.Disable()
	v.submitBtn.Disable()
}

func (v *onboardView) ConnError(msg string) {
	v.status.SetText(msg)
	v.input.Disable()
	v.submitBtn.Disable()
}

// showOnboardDialog opens the interactive add-account flow. refresh is
// called once when the server reports success, to re-fetch the account list.
func showOnboardDialog(refresh func()) {
	if !current.Valid() {
		dialog.ShowInformation("Session expired", "Please log in again to add an account.", window)
		return
	}
	if onboardRunner != nil && onboardRunner.Running() {
		dialog.ShowInformation("In progress", "An add-account session is already running.", window)
		return
	}

	status := widget.NewLabel("Connecting...")
	status.Wrapping = fyne.TextWrapWord
	input := widget.NewEntry()
	input.Disable()
	submitBtn := widget.NewButton("Submit", nil)
	submitBtn.Disable()
	inputRow := container.NewBorder(nil, nil, nil, submitBtn, input)

	view := &onboardView{
		status:    status,
		input:     input,
		submitBtn: submitBtn,
		inputRow:  inputRow,
		onSuccess: refresh,
	}

	onboardRunner = &onboard.Runner{
		URL:         client.StreamURL("/ws/add_account"),
		DialTimeout: cfg.Stream.DialTimeout,
		Log:         logger,
		Events:      view,
	}

	submit := func() {
		text := input.Text
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			onboardRunner.Submit(ctx, text)
		}()
	}
	submitBtn.OnTapped = submit
	input.OnSubmitted = func(string) { submit() }

	content := container.NewVBox(status, inputRow)
	d := dialog.NewCustom("Add Account", "Close", content, window)
	d.SetOnClosed(func() {
		onboardRunner.Stop()
	})
	d.Resize(fyne.NewSize(480, 200))
	d.Show()

	go func() {
		if err := onboardRunner.Start(context.Background(), current.Token); err != nil {
			logger.Error().Err(err).Msg("onboarding start")
		}
	}()
}
