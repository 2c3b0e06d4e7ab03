package main

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"relaydash/internal/api"
	"relaydash/internal/pages"
)

// listBox renders panel rows as labels in a scrollable column, with an
// optional per-row action button (delete, mostly). It implements
// pages.ListView.
type listBox struct {
	box    *fyne.Container
	scroll *container.Scroll

	// action settings; a zero actionLabel means plain rows.
	actionLabel string
	keyCol      int
	onAction    func(key string)
}

func newListBox() *listBox {
	b := &listBox{box: container.NewVBox()}
	b.scroll = container.NewVScroll(b.box)
	return b
}

func newActionListBox(label string, keyCol int, onAction func(key string)) *listBox {
	b := newListBox()
	b.actionLabel = label
	b.keyCol = keyCol
	b.onAction = onAction
	return b
}

func (v *listBox) object() fyne.CanvasObject { return v.scroll }

func (v *listBox) clear() {
	v.box.Objects = nil
	v.box.Refresh()
}

func (v *listBox) SetRows(rows [][]string) {
	v.clear()
	for _, row := range rows {
		label := widget.NewLabel(strings.Join(row, "   |   "))
		if v.onAction != nil && v.keyCol < len(row) {
			key := row[v.keyCol]
			btn := widget.NewButton(v.actionLabel, func() {
				go v.onAction(key)
			})
			v.box.Add(container.NewBorder(nil, nil, nil, btn, label))
			continue
		}
		v.box.Add(label)
	}
	v.box.Refresh()
}

func (v *listBox) SetPlaceholder(msg string) {
	v.clear()
	v.box.Add(widget.NewLabelWithStyle(msg, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	v.box.Refresh()
}

func (v *listBox) SetError(msg string) {
	v.clear()
	v.box.Add(widget.NewLabelWithStyle(msg, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	v.box.Refresh()
}

// statusLine implements pages.StatusView on a single label.
type statusLine struct {
	label *widget.Label
}

func newStatusLine() *statusLine {
	l := widget.NewLabel("")
	l.Wrapping = fyne.TextWrapWord
	return &statusLine{label: l}
}

func (v *statusLine) SetStatus(msg string) { v.label.SetText(msg) }
func (v *statusLine) SetError(msg string)  { v.label.SetText("Error: " + msg) }

// settingsForm implements pages.FormView over named entry setters.
type settingsForm struct {
	setters map[string]func(string)
	status  *widget.Label
}

func (v *settingsForm) SetFields(fields map[string]string) {
	for name, value := range fields {
		if set, ok := v.setters[name]; ok {
			set(value)
		}
	}
}

func (v *settingsForm) SetError(msg string) { v.status.SetText("Error: " + msg) }
func (v *settingsForm) Notify(msg string)   { v.status.SetText(msg) }

func pagePlansPanel(view pages.ListView) *pages.PlansPanel {
	return &pages.PlansPanel{API: client, Log: logger, View: view}
}

// accountPicker is a select box filled with the phones of the user's
// accounts; most tool pages start with one.
func accountPicker() *widget.Select {
	sel := widget.NewSelect(nil, nil)
	sel.PlaceHolder = "Select account"
	go func() {
		ctx, cancel := requestCtx()
		defer cancel()
		accounts, err := client.Accounts(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("load accounts for picker")
			return
		}
		opts := make([]string, 0, len(accounts))
		for _, a := range accounts {
			opts = append(opts, a.Phone)
		}
		sel.Options = opts
		sel.Refresh()
	}()
	return sel
}

// pageBuilders is the UI half of the dispatch table: each entry returns the
// page's rendered content plus the initializer the dispatcher runs.
var pageBuilders = map[string]func() (fyne.CanvasObject, pages.InitFunc){
	"dashboard": buildDashboardPage,
	"accounts":  buildAccountsPage,
	"rules":     buildRulesPage,
	"joiner":    buildJoinerPage,
	"autoreply": buildAutoReplyPage,
	"smartsell": buildSmartSellingPage,
	"validator": buildValidatorPage,
	"extractor": buildExtractorPage,
	"forwarder": buildForwarderPage,
	"logs":      buildLogsPage,
	"admin":     buildAdminPage,
}

func buildPage(pageID string) (fyne.CanvasObject, pages.InitFunc) {
	build, ok := pageBuilders[pageID]
	if !ok {
		// Unknown page ids degrade to an empty page, never an error.
		return widget.NewLabel(""), func(context.Context) {}
	}
	return build()
}

func buildDashboardPage() (fyne.CanvasObject, pages.InitFunc) {
	view := newListBox()
	panel := &pages.AccountsPanel{API: client, Log: logger, View: view, Confirm: confirmAction}

	welcome := widget.NewLabel("Welcome back, " + current.User.Username + ". Your connected accounts:")
	content := container.NewBorder(welcome, nil, nil, nil, view.object())
	return content, panel.Load
}

func buildAccountsPage() (fyne.CanvasObject, pages.InitFunc) {
	var panel *pages.AccountsPanel
	view := newActionListBox("Delete", 0, func(phone string) {
		ctx, cancel := requestCtx()
		defer cancel()
		panel.Delete(ctx, phone)
	})
	panel = &pages.AccountsPanel{API: client, Log: logger, View: view, Confirm: confirmAction}

	addBtn := widget.NewButton("Add Account", func() {
		showOnboardDialog(func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Load(ctx)
		})
	})
	addBtn.Importance = widget.HighImportance

	content := container.NewBorder(container.NewHBox(addBtn), nil, nil, nil, view.object())
	return content, panel.Load
}

func buildRulesPage() (fyne.CanvasObject, pages.InitFunc) {
	var panel *pages.RulesPanel
	view := newActionListBox("Delete", 0, func(id string) {
		ctx, cancel := requestCtx()
		defer cancel()
		panel.Delete(ctx, id)
	})
	panel = &pages.RulesPanel{API: client, Log: logger, View: view, Confirm: confirmAction}

	picker := accountPicker()
	sourceEntry := widget.NewEntry()
	sourceEntry.SetPlaceHolder("Source chat id")
	destEntry := widget.NewEntry()
	destEntry.SetPlaceHolder("Destination chat id")
	filtersEntry := widget.NewEntry()
	filtersEntry.SetPlaceHolder("Filters (optional)")

	createBtn := widget.NewButton("Add Rule", func() {
		rule := api.ForwardingRule{
			AccountPhone:    picker.Selected,
			SourceChat:      sourceEntry.Text,
			DestinationChat: destEntry.Text,
			Filters:         filtersEntry.Text,
		}
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Create(ctx, rule)
		}()
	})

	form := container.NewVBox(picker, sourceEntry, destEntry, filtersEntry, createBtn, widget.NewSeparator())
	content := container.NewBorder(form, nil, nil, nil, view.object())
	return content, panel.Load
}

func buildJoinerPage() (fyne.CanvasObject, pages.InitFunc) {
	view := newListBox()
	panel := &pages.JoinerPanel{API: client, Log: logger, View: view}

	picker := accountPicker()
	linksEntry := widget.NewMultiLineEntry()
	linksEntry.SetPlaceHolder("One group link per line")

	joinBtn := widget.NewButton("Join Groups", func() {
		phone, links := picker.Selected, linksEntry.Text
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*cfg.Server.RequestTimeout)
			defer cancel()
			// Joining is slow server-side (it paces the joins), hence the
			// stretched timeout.
			panel.Join(ctx, phone, links)
		}()
	})

	form := container.NewVBox(picker, linksEntry, joinBtn, widget.NewSeparator())
	content := container.NewBorder(form, nil, nil, nil, view.object())
	return content, func(context.Context) {}
}

func buildAutoReplyPage() (fyne.CanvasObject, pages.InitFunc) {
	messageEntry := widget.NewMultiLineEntry()
	messageEntry.SetPlaceHolder("Reply message")
	keywordsEntry := widget.NewEntry()
	keywordsEntry.SetPlaceHolder("Keywords, comma separated (empty replies to everything)")
	status := widget.NewLabel("")

	view := &settingsForm{
		status: status,
		setters: map[string]func(string){
			"message":  messageEntry.SetText,
			"keywords": keywordsEntry.SetText,
		},
	}
	panel := &pages.AutoReplyPanel{API: client, Log: logger, View: view}

	picker := accountPicker()
	picker.OnChanged = func(phone string) {
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Load(ctx, phone)
		}()
	}

	saveBtn := widget.NewButton("Save", func() {
		s := api.AutoReplySettings{
			AccountPhone: picker.Selected,
			Message:      messageEntry.Text,
			Keywords:     keywordsEntry.Text,
		}
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Save(ctx, s)
		}()
	})

	content := container.NewVBox(picker, messageEntry, keywordsEntry, saveBtn, status)
	return content, func(context.Context) {}
}

func buildSmartSellingPage() (fyne.CanvasObject, pages.InitFunc) {
	enabledCheck := widget.NewCheck("Enabled", nil)
	mustEntry := widget.NewEntry()
	mustEntry.SetPlaceHolder("Must contain (comma separated)")
	maybeEntry := widget.NewEntry()
	maybeEntry.SetPlaceHolder("Maybe contain (comma separated)")
	messageEntry := widget.NewMultiLineEntry()
	messageEntry.SetPlaceHolder("Selling message")
	status := widget.NewLabel("")

	view := &settingsForm{
		status: status,
		setters: map[string]func(string){
			"enabled":       func(v string) { enabledCheck.SetChecked(v == "true") },
			"must_contain":  mustEntry.SetText,
			"maybe_contain": maybeEntry.SetText,
			"message":       messageEntry.SetText,
		},
	}
	panel := &pages.SmartSellingPanel{API: client, Log: logger, View: view}

	picker := accountPicker()
	picker.OnChanged = func(phone string) {
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Load(ctx, phone)
		}()
	}

	saveBtn := widget.NewButton("Save", func() {
		s := api.SmartSellingSettings{
			AccountPhone: picker.Selected,
			Enabled:      enabledCheck.Checked,
			MustContain:  mustEntry.Text,
			MaybeContain: maybeEntry.Text,
			Message:      messageEntry.Text,
		}
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Save(ctx, s)
		}()
	})

	content := container.NewVBox(picker, enabledCheck, mustEntry, maybeEntry, messageEntry, saveBtn, status)
	return content, func(context.Context) {}
}

func buildValidatorPage() (fyne.CanvasObject, pages.InitFunc) {
	view := newStatusLine()
	panel := &pages.ValidatorPanel{API: client, Log: logger, View: view}

	linkEntry := widget.NewEntry()
	linkEntry.SetPlaceHolder("t.me/...")
	validateBtn := widget.NewButton("Validate", func() {
		link := linkEntry.Text
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Validate(ctx, link)
		}()
	})

	content := container.NewVBox(linkEntry, validateBtn, view.label)
	return content, func(context.Context) {}
}

func buildExtractorPage() (fyne.CanvasObject, pages.InitFunc) {
	view := newListBox()
	panel := &pages.ExtractorPanel{API: client, Log: logger, View: view}

	picker := accountPicker()
	channelEntry := widget.NewEntry()
	channelEntry.SetPlaceHolder("Channel link")
	typeSelect := widget.NewSelect([]string{"usernames", "links", "phones"}, nil)
	typeSelect.PlaceHolder = "What to extract"
	limitEntry := widget.NewEntry()
	limitEntry.SetPlaceHolder("Message limit (default 100)")

	extractBtn := widget.NewButton("Extract", func() {
		phone, link, typ, limit := picker.Selected, channelEntry.Text, typeSelect.Selected, limitEntry.Text
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*cfg.Server.RequestTimeout)
			defer cancel()
			panel.Extract(ctx, phone, link, typ, limit)
		}()
	})

	form := container.NewVBox(picker, channelEntry, typeSelect, limitEntry, extractBtn, widget.NewSeparator())
	content := container.NewBorder(form, nil, nil, nil, view.object())
	return content, func(context.Context) {}
}

func buildForwarderPage() (fyne.CanvasObject, pages.InitFunc) {
	view := newStatusLine()
	panel := &pages.ForwarderPanel{API: client, Log: logger, View: view}

	picker := accountPicker()
	messageEntry := widget.NewEntry()
	messageEntry.SetPlaceHolder("Message link (t.me/channel/123)")
	delayEntry := widget.NewEntry()
	delayEntry.SetPlaceHolder("Initial delay seconds (default 0)")
	cycleEntry := widget.NewEntry()
	cycleEntry.SetPlaceHolder("Delay between targets (default 5)")
	targetsEntry := widget.NewMultiLineEntry()
	targetsEntry.SetPlaceHolder("One target per line")
	hideCheck := widget.NewCheck("Hide sender", nil)

	startBtn := widget.NewButton("Start Forwarding", func() {
		phone, link := picker.Selected, messageEntry.Text
		delay, cycle, targets := delayEntry.Text, cycleEntry.Text, targetsEntry.Text
		hide := hideCheck.Checked
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.Start(ctx, phone, link, delay, cycle, targets, hide)
		}()
	})
	startBtn.Importance = widget.HighImportance

	content := container.NewVBox(
		picker, messageEntry, delayEntry, cycleEntry, targetsEntry, hideCheck, startBtn, view.label,
	)
	return content, func(context.Context) {}
}

func buildAdminPage() (fyne.CanvasObject, pages.InitFunc) {
	var panel *pages.AdminPanel

	userView := newActionListBox("Delete", 0, func(username string) {
		ctx, cancel := requestCtx()
		defer cancel()
		panel.DeleteUser(ctx, username)
	})
	planView := newActionListBox("Delete", 0, func(id string) {
		ctx, cancel := requestCtx()
		defer cancel()
		panel.DeletePlan(ctx, id)
	})
	panel = &pages.AdminPanel{
		API:      client,
		Log:      logger,
		UserView: userView,
		PlanView: planView,
		Confirm:  confirmAction,
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Plan name")
	priceEntry := widget.NewEntry()
	priceEntry.SetPlaceHolder("Price")
	daysEntry := widget.NewEntry()
	daysEntry.SetPlaceHolder("Duration days")
	createPlanBtn := widget.NewButton("Create Plan", func() {
		name, price, days := nameEntry.Text, priceEntry.Text, daysEntry.Text
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.CreatePlan(ctx, name, price, days)
		}()
	})

	grantUserEntry := widget.NewEntry()
	grantUserEntry.SetPlaceHolder("Username")
	grantPlanEntry := widget.NewEntry()
	grantPlanEntry.SetPlaceHolder("Plan id")
	grantBtn := widget.NewButton("Grant Subscription", func() {
		username, planID := grantUserEntry.Text, grantPlanEntry.Text
		go func() {
			ctx, cancel := requestCtx()
			defer cancel()
			panel.GrantSubscription(ctx, username, planID)
		}()
	})

	users := container.NewBorder(
		widget.NewLabelWithStyle("Users", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(grantUserEntry, grantPlanEntry, grantBtn),
		nil, nil,
		userView.object(),
	)
	plansCol := container.NewBorder(
		widget.NewLabelWithStyle("Plans", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(nameEntry, priceEntry, daysEntry, createPlanBtn),
		nil, nil,
		planView.object(),
	)

	split := container.NewHSplit(users, plansCol)
	init := func(ctx context.Context) {
		panel.LoadUsers(ctx)
		panel.LoadPlans(ctx)
	}
	return split, init
}
