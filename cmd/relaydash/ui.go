package main

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"relaydash/internal/gate"
	"relaydash/internal/pages"
	"relaydash/internal/session"
)

var sidebarPages = []string{
	"dashboard", "accounts", "rules", "joiner", "autoreply",
	"smartsell", "validator", "extractor", "forwarder", "logs",
}

var pageTitles = map[string]string{
	"dashboard": "Dashboard",
	"accounts":  "Accounts",
	"rules":     "Forwarding Rules",
	"joiner":    "Group Joiner",
	"autoreply": "Auto Reply",
	"smartsell": "Smart Selling",
	"validator": "Link Validator",
	"extractor": "Extractor",
	"forwarder": "Forward Config",
	"logs":      "Live Logs",
	"admin":     "Admin",
}

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
}

// showPage is the single entry point for navigation. The gate runs first on
// every load; only an Allow outcome reaches any page-specific code.
func showPage(pageID string) {
	stopStreams()
	go func() {
		ctx, cancel := requestCtx()
		defer cancel()

		d := gate.Check(ctx, client, pageID)
		switch d.Outcome {
		case gate.RedirectLogin:
			logger.Info().Str("page", pageID).Msg("gate: redirect to login")
			window.SetContent(makeLoginScreen())
		case gate.RedirectHome:
			current = d.Session
			logger.Warn().Str("page", pageID).Str("user", d.Session.User.Username).Msg("gate: access denied")
			dialog.ShowInformation("Access denied", d.Notice, window)
			showPage("dashboard")
		case gate.Allow:
			if d.Session.Token != "" {
				current = d.Session
			}
			if gate.Classify(pageID) == gate.Public {
				window.SetContent(makeLandingScreen())
				return
			}
			window.SetContent(makeMainScreen(pageID))
		}
	}()
}

// makeLandingScreen is the public page: product blurb plus the pricing table.
func makeLandingScreen() fyne.CanvasObject {
	plansView := newListBox()
	plansPanel := pagePlansPanel(plansView)
	go func() {
		ctx, cancel := requestCtx()
		defer cancel()
		plansPanel.Load(ctx)
	}()

	loginBtn := widget.NewButton("Login", func() {
		window.SetContent(makeLoginScreen())
	})
	loginBtn.Importance = widget.HighImportance
	registerBtn := widget.NewButton("Register", func() {
		window.SetContent(makeRegisterScreen())
	})

	header := container.NewVBox(
		widget.NewLabelWithStyle("RelayDash", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Multi-account messaging automation", fyne.TextAlignCenter, fyne.TextStyle{}),
		widget.NewSeparator(),
		container.NewCenter(container.NewHBox(loginBtn, registerBtn)),
		widget.NewLabelWithStyle("Plans", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	)

	return container.NewBorder(header, nil, nil, nil, plansView.object())
}

func makeLoginScreen() fyne.CanvasObject {
	userEntry := widget.NewEntry()
	userEntry.SetPlaceHolder("Username")

	passEntry := widget.NewPasswordEntry()
	passEntry.SetPlaceHolder("Password")

	errorLabel := widget.NewLabel("")
	errorLabel.Hide()

	loginBtn := widget.NewButton("Login", func() {
		if userEntry.Text == "" || passEntry.Text == "" {
			errorLabel.SetText("Username and password are required.")
			errorLabel.Show()
			return
		}
		ctx, cancel := requestCtx()
		defer cancel()
		s, err := client.Login(ctx, userEntry.Text, passEntry.Text)
		if err != nil {
			errorLabel.SetText(err.Error())
			errorLabel.Show()
			return
		}
		current = s
		logger.Info().Str("user", s.User.Username).Str("role", s.User.Role).Msg("logged in")
		if s.IsAdmin() {
			showPage("admin")
		} else {
			showPage("dashboard")
		}
	})
	loginBtn.Importance = widget.HighImportance

	registerLink := widget.NewButton("Need an account? Register", func() {
		window.SetContent(makeRegisterScreen())
	})
	backLink := widget.NewButton("Back", func() { showPage("landing") })

	form := container.NewVBox(
		widget.NewLabelWithStyle("RelayDash Login", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		userEntry,
		passEntry,
		errorLabel,
		loginBtn,
		registerLink,
		backLink,
	)

	return container.NewCenter(form)
}

func makeRegisterScreen() fyne.CanvasObject {
	userEntry := widget.NewEntry()
	userEntry.SetPlaceHolder("Username")

	passEntry := widget.NewPasswordEntry()
	passEntry.SetPlaceHolder("Password")

	statusLabel := widget.NewLabel("")
	statusLabel.Hide()

	registerBtn := widget.NewButton("Register", func() {
		if userEntry.Text == "" || passEntry.Text == "" {
			statusLabel.SetText("Username and password are required.")
			statusLabel.Show()
			return
		}
		ctx, cancel := requestCtx()
		defer cancel()
		if err := client.Register(ctx, userEntry.Text, passEntry.Text); err != nil {
			statusLabel.SetText(err.Error())
			statusLabel.Show()
			return
		}
		dialog.ShowInformation("Registered", "Account created, you can log in now.", window)
		window.SetContent(makeLoginScreen())
	})
	registerBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Create Account", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		userEntry,
		passEntry,
		statusLabel,
		registerBtn,
		widget.NewButton("Back to login", func() { window.SetContent(makeLoginScreen()) }),
	)

	return container.NewCenter(form)
}

func makeMainScreen(pageID string) fyne.CanvasObject {
	visible := sidebarPages
	if current.IsAdmin() {
		visible = append(append([]string{}, sidebarPages...), "admin")
	}

	menuList := widget.NewList(
		func() int { return len(visible) },
		func() fyne.CanvasObject { return widget.NewLabel("page") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(pageTitles[visible[i]])
		},
	)
	for i, id := range visible {
		if id == pageID {
			menuList.Select(i)
			break
		}
	}
	// Assigned after Select so restoring the highlight does not re-navigate.
	menuList.OnSelected = func(i widget.ListItemID) {
		if visible[i] != pageID {
			showPage(visible[i])
		}
	}

	logoutBtn := widget.NewButton("Logout", func() {
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			if err := client.Logout(ctx); err != nil {
				logger.Error().Err(err).Msg("logout")
			}
			current = session.Session{}
			showPage("landing")
		}()
	})

	sidebar := container.NewBorder(
		widget.NewLabelWithStyle(current.User.Username, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		logoutBtn,
		nil, nil,
		menuList,
	)

	content, init := buildPage(pageID)
	reg := pages.Registry{pageID: init}
	go func() {
		ctx, cancel := requestCtx()
		defer cancel()
		reg.Dispatch(ctx, pageID)
	}()

	titled := container.NewBorder(
		container.NewPadded(widget.NewLabelWithStyle(pageTitles[pageID], fyne.TextAlignLeading, fyne.TextStyle{Bold: true})),
		nil, nil, nil,
		container.NewPadded(content),
	)

	split := container.NewHSplit(sidebar, titled)
	split.SetOffset(0.2)
	return split
}

// confirmAction blocks its (non-UI) goroutine until the user answers.
func confirmAction(prompt string) bool {
	answer := make(chan bool, 1)
	dialog.ShowConfirm("Confirm", prompt, func(ok bool) { answer <- ok }, window)
	return <-answer
}
