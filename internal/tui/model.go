// Package tui is the terminal boat browser. It owns the views and drives
// them from bubbletea's event loop, so Update is the UI loop every view is
// confined to.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/event"
	"github.com/Josh-Grafman/boatrental/internal/logging"
	"github.com/Josh-Grafman/boatrental/internal/notify"
	"github.com/Josh-Grafman/boatrental/internal/selection"
	"github.com/Josh-Grafman/boatrental/internal/tui/styles"
	"github.com/Josh-Grafman/boatrental/internal/util"
	"github.com/Josh-Grafman/boatrental/internal/views"
)

// focus is the widget that receives key presses.
type focus int

const (
	focusList focus = iota
	focusType
	focusName
	focusSubject
	focusComment
	focusStars
)

// panel is the optional pane under the result grid.
type panel int

const (
	panelNone panel = iota
	panelMap
	panelNearMe
	panelSimilar
)

// DefaultColumns is the number of result columns shown when Options.Columns
// is unset.
const DefaultColumns = 4

// Options configures the browser.
type Options struct {
	Service     boat.Service
	Invalidator boat.Invalidator
	// Bus is shared with the live feed when one runs. Nil creates a
	// private bus.
	Bus         *event.Bus
	Locator     views.Locator
	NearMeLimit int
	SimilarBy   boat.SimilarBy
	DefaultType string
	Author      string
	Theme       string
	Columns     int
	Logger      *logging.Logger
}

// Model is the bubbletea model of the browser.
type Model struct {
	opts   Options
	logger *logging.Logger
	styles *styles.ThemedStyles
	keys   keyMap
	help   help.Model

	exec *Executor
	bus  *event.Bus
	sel  *selection.Coordinator
	deps views.Deps
	subs []*event.Subscription

	search    *views.Search
	reviews   *views.ReviewsView
	detail    *views.DetailView
	form      *views.ReviewForm
	mapView   *views.MapView
	nearMe    *views.NearMeView
	similar   *views.SimilarView
	similarBy boat.SimilarBy

	table     table.Model
	rowIDs    []string
	spinner   spinner.Model
	filterIn  textinput.Model
	subjectIn textinput.Model
	commentIn textinput.Model

	focus          focus
	panel          panel
	notice         *notify.Notice
	status         string
	defaultApplied bool
	width          int
	height         int
	quitting       bool
}

// NewModel builds the views and the widgets around them.
func NewModel(opts Options) *Model {
	logger := logging.OrNop(opts.Logger).WithComponent("tui")
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus(logger)
	}
	if opts.Locator == nil {
		opts.Locator = views.FixedLocator{}
	}

	m := &Model{
		opts:      opts,
		logger:    logger,
		styles:    styles.ForTheme(opts.Theme),
		keys:      defaultKeyMap(),
		help:      help.New(),
		exec:      NewExecutor(logger),
		bus:       bus,
		similarBy: opts.SimilarBy,
	}
	m.sel = selection.New(bus, logger)
	m.deps = views.Deps{
		Bus:         bus,
		Selection:   m.sel,
		Exec:        m.exec,
		Notifier:    notify.NotifierFunc(m.showNotice),
		Navigator:   notify.NavigatorFunc(m.navigate),
		Invalidator: opts.Invalidator,
		Logger:      logger,
	}

	svc := opts.Service
	m.search = views.NewSearch(svc, m.deps)
	m.reviews = views.NewReviewsView(svc, m.deps)
	m.detail = views.NewDetailView(svc, m.reviews, m.deps)
	m.form = views.NewReviewForm("", svc, m.deps)
	m.form.SetAuthor(opts.Author)
	m.form.Rating().SetStyles(m.styles.StarFilled, m.styles.StarEmpty)
	m.mapView = views.NewMapView(svc, m.deps)
	m.nearMe = views.NewNearMeView(svc, opts.Locator, opts.NearMeLimit, m.deps)
	m.subs = append(m.subs, bus.Subscribe(event.BoatChannel, m.handleBoat))

	m.table = table.New(
		table.WithColumns(columnsFor(opts.Columns)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(m.styles.Palette.Primary).Bold(true)
	ts.Selected = ts.Selected.Foreground(m.styles.Palette.Text).Background(m.styles.Palette.Border)
	m.table.SetStyles(ts)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = m.styles.Primary

	m.filterIn = textinput.New()
	m.filterIn.CharLimit = 64
	m.subjectIn = textinput.New()
	m.subjectIn.Placeholder = "Subject"
	m.subjectIn.CharLimit = 255
	m.commentIn = textinput.New()
	m.commentIn.Placeholder = "Comment"
	m.commentIn.CharLimit = 1000

	return m
}

// column is one result grid column and how to fill it.
type column struct {
	title string
	width int
	value func(boat.Boat) string
}

var allColumns = []column{
	{"Name", 22, func(b boat.Boat) string { return b.Name }},
	{"Type", 12, func(b boat.Boat) string { return b.TypeName }},
	{"Price", 14, func(b boat.Boat) string { return boat.FormatPrice(b.Price) }},
	{"Length", 8, func(b boat.Boat) string { return boat.FormatLength(b.Length) }},
	{"Year", 6, func(b boat.Boat) string {
		if b.Year == 0 {
			return ""
		}
		return fmt.Sprint(b.Year)
	}},
	{"Owner", 16, func(b boat.Boat) string { return b.OwnerName }},
}

func visibleColumns(n int) []column {
	if n <= 0 {
		n = DefaultColumns
	}
	return allColumns[:min(max(n, 2), len(allColumns))]
}

func columnsFor(n int) []table.Column {
	cols := visibleColumns(n)
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		out[i] = table.Column{Title: c.title, Width: c.width}
	}
	return out
}

// Init loads the boat types and the unfiltered result list.
func (m *Model) Init() tea.Cmd {
	m.search.Start()
	return tea.Batch(m.spinner.Tick, m.exec.Flush())
}

// Update handles one message. Every view method runs from here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height/2-4))

	case resultMsg:
		msg.apply()

	case postMsg:
		msg.fn()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	if m.quitting {
		m.close()
		return m, tea.Quit
	}

	m.sync()
	cmds = append(cmds, m.exec.Flush())
	return m, tea.Batch(cmds...)
}

// sync brings the widgets in line with the views after a message.
func (m *Model) sync() {
	if !m.defaultApplied && len(m.search.Form().Types()) > 0 {
		m.defaultApplied = true
		if m.opts.DefaultType != "" && !m.search.Form().ChooseByName(m.opts.DefaultType) {
			m.status = fmt.Sprintf("No boat type matches %q", m.opts.DefaultType)
		}
	}

	if m.detail.BoatID() == "" && m.form.BoatID() != "" {
		m.form.SetBoat("")
		if m.focus >= focusSubject {
			m.blurInputs()
		}
	}

	// The form resets itself after a successful submit.
	if m.subjectIn.Value() != m.form.Subject() {
		m.subjectIn.SetValue(m.form.Subject())
	}
	if m.commentIn.Value() != m.form.Comment() {
		m.commentIn.SetValue(m.form.Comment())
	}

	m.syncTable()
}

func (m *Model) syncTable() {
	boats := m.search.List().Boats()
	cols := visibleColumns(m.opts.Columns)
	selected := m.search.List().SelectedID()

	rows := make([]table.Row, len(boats))
	ids := make([]string, len(boats))
	for i, b := range boats {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = util.Truncate(c.value(b), c.width)
		}
		if b.ID == selected {
			row[0] = util.Truncate("● "+b.Name, cols[0].width)
		}
		rows[i] = row
		ids[i] = b.ID
	}
	m.rowIDs = ids
	m.table.SetRows(rows)
	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

func (m *Model) cursorID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return ""
	}
	return m.rowIDs[i]
}

func (m *Model) handleBoat(msg event.Message) {
	bm, ok := msg.(event.BoatMessage)
	if !ok || bm.Kind() != event.KindSelect {
		return
	}
	m.form.SetBoat(bm.BoatID)
	if m.panel == panelSimilar {
		m.loadSimilar()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceEnd) {
		m.quitting = true
		return nil
	}

	switch m.focus {
	case focusType, focusName:
		return m.handleFilterKey(msg)
	case focusSubject, focusComment, focusStars:
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Select):
		if id := m.cursorID(); id != "" {
			m.search.List().Select(id)
		}
	case key.Matches(msg, m.keys.NextTab):
		m.nextTab()
	case key.Matches(msg, m.keys.Details):
		m.detail.SetActiveTab(views.TabDetails)
	case key.Matches(msg, m.keys.Reviews):
		m.detail.SetActiveTab(views.TabReviews)
	case key.Matches(msg, m.keys.Write):
		return m.openForm()
	case key.Matches(msg, m.keys.Type):
		return m.openFilter(msg.String())
	case key.Matches(msg, m.keys.Map):
		m.togglePanel(panelMap)
	case key.Matches(msg, m.keys.NearMe):
		m.togglePanel(panelNearMe)
		if m.panel == panelNearMe {
			m.nearMe.Load(m.search.List().Filter().TypeID)
		}
	case key.Matches(msg, m.keys.Similar):
		m.cycleSimilar()
	case key.Matches(msg, m.keys.Open):
		m.detail.NavigateToRecord()
	case key.Matches(msg, m.keys.NewBoat):
		m.search.CreateNewBoat()
	case key.Matches(msg, m.keys.Refresh):
		m.sel.Refresh()
	case key.Matches(msg, m.keys.Back):
		m.notice = nil
		m.status = ""
		m.panel = panelNone
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) nextTab() {
	tabs := views.Tabs
	for i, t := range tabs {
		if t == m.detail.ActiveTab() {
			m.detail.SetActiveTab(tabs[(i+1)%len(tabs)])
			return
		}
	}
	m.detail.SetActiveTab(views.TabDetails)
}

func (m *Model) togglePanel(p panel) {
	if m.panel == p {
		m.panel = panelNone
		return
	}
	m.panel = p
}

// openFilter focuses the type picker ("t") or the name glob ("/").
func (m *Model) openFilter(trigger string) tea.Cmd {
	if trigger == "/" {
		m.focus = focusName
		m.filterIn.Placeholder = "Name, e.g. *fish*"
		m.filterIn.SetValue(m.search.List().Filter().Name)
	} else {
		m.focus = focusType
		m.filterIn.Placeholder = boat.AllTypesLabel
		m.filterIn.SetValue("")
	}
	return m.filterIn.Focus()
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.blurInputs()
		return nil
	case key.Matches(msg, m.keys.Select):
		value := strings.TrimSpace(m.filterIn.Value())
		if m.focus == focusType {
			if !m.search.Form().ChooseByName(value) {
				m.status = fmt.Sprintf("No boat type matches %q", value)
			}
		} else {
			f := m.search.List().Filter()
			f.Name = value
			if err := f.Validate(); err != nil {
				m.status = err.Error()
			} else {
				m.search.List().SetFilter(f)
			}
		}
		m.blurInputs()
		return nil
	}
	var cmd tea.Cmd
	m.filterIn, cmd = m.filterIn.Update(msg)
	return cmd
}

func (m *Model) openForm() tea.Cmd {
	if m.detail.BoatID() == "" {
		m.status = views.PleaseSelect
		return nil
	}
	m.detail.SetActiveTab(views.TabAddReview)
	m.focus = focusSubject
	m.commentIn.Blur()
	return m.subjectIn.Focus()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.blurInputs()
		return nil
	case key.Matches(msg, m.keys.Select):
		m.form.Submit()
		return nil
	case key.Matches(msg, m.keys.NextTab):
		return m.nextField()
	}

	switch m.focus {
	case focusStars:
		s := msg.String()
		switch {
		case key.Matches(msg, m.keys.More):
			m.form.Rating().Increment()
		case key.Matches(msg, m.keys.Less):
			m.form.Rating().Decrement()
		case len(s) == 1 && s[0] >= '0' && s[0] <= '9':
			m.form.Rating().Click(int(s[0] - '0'))
		}
		return nil
	case focusSubject:
		var cmd tea.Cmd
		m.subjectIn, cmd = m.subjectIn.Update(msg)
		m.form.SetSubject(m.subjectIn.Value())
		return cmd
	default:
		var cmd tea.Cmd
		m.commentIn, cmd = m.commentIn.Update(msg)
		m.form.SetComment(m.commentIn.Value())
		return cmd
	}
}

func (m *Model) nextField() tea.Cmd {
	m.subjectIn.Blur()
	m.commentIn.Blur()
	switch m.focus {
	case focusSubject:
		m.focus = focusComment
		return m.commentIn.Focus()
	case focusComment:
		m.focus = focusStars
		return nil
	default:
		m.focus = focusSubject
		return m.subjectIn.Focus()
	}
}

func (m *Model) blurInputs() {
	m.filterIn.Blur()
	m.subjectIn.Blur()
	m.commentIn.Blur()
	m.focus = focusList
}

var similarOrder = []boat.SimilarBy{boat.SimilarByType, boat.SimilarByPrice, boat.SimilarByLength}

// cycleSimilar opens the similar boats pane, then steps through the match
// attributes, then closes it.
func (m *Model) cycleSimilar() {
	if m.detail.BoatID() == "" {
		m.status = views.PleaseSelect
		return
	}
	if m.panel != panelSimilar {
		m.panel = panelSimilar
		if m.similarBy == "" {
			m.similarBy = boat.SimilarByType
		}
		m.loadSimilar()
		return
	}
	for i, by := range similarOrder {
		if by == m.similarBy {
			if i == len(similarOrder)-1 {
				m.similarBy = similarOrder[0]
				m.panel = panelNone
				return
			}
			m.similarBy = similarOrder[i+1]
			break
		}
	}
	m.loadSimilar()
}

func (m *Model) loadSimilar() {
	id := m.detail.BoatID()
	if m.similar != nil {
		m.similar.Close()
		m.similar = nil
	}
	if id == "" {
		return
	}
	m.similar = views.NewSimilarView(id, m.similarBy, m.opts.Service, m.deps)
	m.similar.Load()
}

func (m *Model) showNotice(n notify.Notice) {
	m.notice = &n
}

func (m *Model) navigate(t notify.Target) {
	switch t.Page {
	case notify.BoatPage:
		m.sel.Select(t.ID)
		m.detail.SetActiveTab(views.TabDetails)
		m.panel = panelNone
	case notify.NewBoatPage:
		m.status = "Add a boat with: boatrental boats add --name NAME --type TYPE"
	case notify.UserPage:
		m.status = "Reviewer: " + t.ID
	}
}

// Selection returns the coordinator the browser's views share.
func (m *Model) Selection() *selection.Coordinator { return m.sel }

func (m *Model) close() {
	for _, s := range m.subs {
		s.Release()
	}
	m.subs = nil
	m.search.Close()
	m.detail.Close()
	m.reviews.Close()
	m.form.Close()
	m.mapView.Close()
	m.nearMe.Close()
	if m.similar != nil {
		m.similar.Close()
	}
}
