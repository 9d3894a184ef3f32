package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Josh-Grafman/boatrental/internal/boat"
	"github.com/Josh-Grafman/boatrental/internal/rating"
	"github.com/Josh-Grafman/boatrental/internal/util"
	"github.com/Josh-Grafman/boatrental/internal/views"
)

// Layout constants
const (
	detailMinWidth = 36
	defaultWidth   = 100
)

var tabLabels = map[views.Tab]string{
	views.TabDetails:   "Details",
	views.TabReviews:   "Reviews",
	views.TabAddReview: "Add Review",
}

// View renders the browser.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if n := m.renderNotice(); n != "" {
		b.WriteString(n)
		b.WriteString("\n")
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	left := m.styles.ContentBox.Render(m.renderList())
	rightWidth := max(detailMinWidth, width-lipgloss.Width(left)-2)
	right := m.styles.ContentBox.Width(rightWidth).Render(m.renderDetail())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if p := m.renderPanel(); p != "" {
		b.WriteString(m.styles.ContentBox.Render(p))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus(width))
	b.WriteString("\n")
	b.WriteString(m.styles.HelpBar.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) loading() bool {
	return m.search.Loading() || m.search.Form().Loading() || m.detail.Loading() ||
		m.reviews.Loading() || m.form.Submitting()
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render("⚓ Boat Rentals")
	filter := m.styles.Subtitle.Render(m.filterLabel())
	if m.loading() {
		filter += " " + m.spinner.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", filter)
}

// filterLabel describes the current result filter, e.g. "Fishing *reel*".
func (m *Model) filterLabel() string {
	f := m.search.List().Filter()
	label := boat.AllTypesLabel
	for _, o := range m.search.Form().Options() {
		if o.Value == f.TypeID {
			label = o.Label
			break
		}
	}
	if f.Name != "" {
		label += " " + f.Name
	}
	return label
}

func (m *Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	text := m.notice.Title
	if m.notice.Message != "" {
		text += ": " + m.notice.Message
	}
	return m.styles.Notice(m.notice.Variant).Render(text)
}

func (m *Model) renderList() string {
	var b strings.Builder
	switch m.focus {
	case focusType:
		b.WriteString("Boat type: " + m.filterIn.View() + "\n")
	case focusName:
		b.WriteString("Name: " + m.filterIn.View() + "\n")
	}
	if len(m.rowIDs) == 0 && !m.search.Loading() {
		b.WriteString(m.styles.Muted.Render("No boats found."))
		return b.String()
	}
	b.WriteString(m.table.View())
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(views.Tabs))
	for _, t := range views.Tabs {
		style := m.styles.TabInactive
		if t == m.detail.ActiveTab() {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(tabLabels[t]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderDetail() string {
	b, ok := m.detail.Boat()
	if !ok {
		if m.detail.Loading() {
			return m.spinner.View() + " Loading..."
		}
		return m.styles.Muted.Render(views.PleaseSelect)
	}

	var s strings.Builder
	s.WriteString(m.styles.Title.Render(m.detail.Title()))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.detail.ActiveTab() {
	case views.TabReviews:
		s.WriteString(m.renderReviews())
	case views.TabAddReview:
		s.WriteString(m.renderForm())
	default:
		s.WriteString(m.renderBoat(b))
	}
	return s.String()
}

func (m *Model) renderBoat(b boat.Boat) string {
	rows := [][2]string{
		{"Type", b.TypeName},
		{"Owner", b.OwnerName},
		{"Price", boat.FormatPrice(b.Price) + " / day"},
		{"Length", boat.FormatLength(b.Length)},
	}
	if b.Year != 0 {
		rows = append(rows, [2]string{"Year", fmt.Sprint(b.Year)})
	}
	rows = append(rows, [2]string{"Location", fmt.Sprintf("%.4f, %.4f", b.Location.Latitude, b.Location.Longitude)})

	var s strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		s.WriteString(m.styles.Muted.Render(fmt.Sprintf("%-9s", r[0])))
		s.WriteString(m.styles.Text.Render(r[1]))
		s.WriteString("\n")
	}
	if b.Description != "" {
		s.WriteString("\n")
		s.WriteString(b.Description)
	}
	return s.String()
}

func (m *Model) renderReviews() string {
	if m.reviews.Loading() && !m.reviews.HasReviews() {
		return m.spinner.View() + " Loading reviews..."
	}
	if !m.reviews.HasReviews() {
		return m.styles.Muted.Render("No reviews yet. Press a to write one.")
	}

	var s strings.Builder
	for _, r := range m.reviews.Reviews() {
		stars := rating.New(rating.Options{Value: r.Rating, Max: boat.MaxRating, ReadOnly: true})
		stars.SetStyles(m.styles.StarFilled, m.styles.StarEmpty)
		s.WriteString(stars.View())
		s.WriteString(" ")
		s.WriteString(m.styles.TileName.Render(r.Subject))
		s.WriteString("\n")
		byline := r.CreatedAt.Format("Jan 2, 2006")
		if r.CreatedByName != "" {
			byline = r.CreatedByName + " · " + byline
		}
		s.WriteString(m.styles.Muted.Render(byline))
		s.WriteString("\n")
		if r.Comment != "" {
			s.WriteString(r.Comment)
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m *Model) renderForm() string {
	label := func(f focus, text string) string {
		if m.focus == f {
			return m.styles.HelpKey.Render(text)
		}
		return m.styles.Muted.Render(text)
	}

	var s strings.Builder
	s.WriteString(label(focusSubject, "Subject") + "\n" + m.subjectIn.View() + "\n\n")
	s.WriteString(label(focusComment, "Comment") + "\n" + m.commentIn.View() + "\n\n")
	s.WriteString(label(focusStars, "Rating") + "\n" + m.form.Rating().View() + "\n\n")
	if err := m.form.Err(); err != nil {
		s.WriteString(m.styles.Error.Render(err.Error()))
		s.WriteString("\n")
	}
	switch {
	case m.form.Submitting():
		s.WriteString(m.spinner.View() + " Saving...")
	case m.focus >= focusSubject:
		s.WriteString(m.styles.Muted.Render("enter submit · tab next field · esc done"))
	default:
		s.WriteString(m.styles.Muted.Render("Press a to start writing."))
	}
	return s.String()
}

func (m *Model) renderPanel() string {
	switch m.panel {
	case panelMap:
		return m.renderMap()
	case panelNearMe:
		return m.renderNearMe()
	case panelSimilar:
		return m.renderSimilar()
	}
	return ""
}

func (m *Model) renderMap() string {
	markers := m.mapView.Markers()
	if len(markers) == 0 {
		return m.styles.Muted.Render("Select a boat to see where it is moored.")
	}
	var s strings.Builder
	for _, mk := range markers {
		s.WriteString(m.styles.Marker.Render("◉ "))
		s.WriteString(fmt.Sprintf("%s  %.4f, %.4f\n", mk.Title, mk.Location.Latitude, mk.Location.Longitude))
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m *Model) renderNearMe() string {
	var s strings.Builder
	s.WriteString(m.styles.Title.Render("Boats Near Me"))
	s.WriteString("\n")
	if m.nearMe.Loading() {
		return s.String() + m.spinner.View() + " Locating..."
	}
	if user, ok := m.nearMe.User(); ok {
		s.WriteString(m.styles.Marker.Render("◉ "))
		s.WriteString(fmt.Sprintf("%s  %.4f, %.4f\n", boat.YouAreHere, user.Latitude, user.Longitude))
	}
	for _, b := range m.nearMe.Boats() {
		s.WriteString("  " + util.Fit(b.Name, 22) + " " + boat.FormatMiles(m.nearMe.Distance(b)) + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m *Model) renderSimilar() string {
	if m.similar == nil {
		return ""
	}
	var s strings.Builder
	s.WriteString(m.styles.Title.Render(m.similar.Title()))
	s.WriteString("\n")
	switch {
	case m.similar.Loading():
		s.WriteString(m.spinner.View() + " Loading...")
	case m.similar.NoBoats():
		s.WriteString(m.styles.Muted.Render("No similar boats found."))
	default:
		for _, b := range m.similar.Boats() {
			s.WriteString("  " + util.Fit(b.Name, 22) + " " + util.Fit(b.TypeName, 12) + " " + boat.FormatPrice(b.Price) + "\n")
		}
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m *Model) renderStatus(width int) string {
	text := m.status
	if text == "" {
		text = fmt.Sprintf("%d boats", len(m.rowIDs))
		if id, ok := m.sel.Current(); ok {
			text += " · selected " + id
		}
	}
	return m.styles.StatusBar.Render(util.Truncate(text, width-2))
}
