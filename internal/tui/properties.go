package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostdesk/hostdesk/internal/browser"
	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

type propertiesModel struct {
	client     *client.Client
	properties []domain.Property
	mappings   map[string][]domain.OTAMapping // by property code
	mappingErr error
	cursor     int
	loading    bool
	err        error
	statusMsg  string
	statusErr  bool
	openURL    func(string) error
	width      int
	height     int
}

type propertiesLoadedMsg struct {
	properties []domain.Property
	err        error
}

type otaMappingsMsg struct {
	propertyCode string
	mappings     []domain.OTAMapping
	err          error
}

type propertyUpdatedMsg struct {
	property *domain.Property
	err      error
}

type browserOpenedMsg struct {
	url string
	err error
}

func newPropertiesModel(c *client.Client) propertiesModel {
	return propertiesModel{
		client:   c,
		mappings: make(map[string][]domain.OTAMapping),
		loading:  true,
		openURL:  browser.Open,
	}
}

func (m propertiesModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		props, err := c.ListProperties(context.Background(), client.PropertyFilter{})
		return propertiesLoadedMsg{properties: props, err: err}
	}
}

func (m propertiesModel) loadMappings(code string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		mappings, err := c.ListOTAMappings(context.Background(), code)
		return otaMappingsMsg{propertyCode: code, mappings: mappings, err: err}
	}
}

func (m propertiesModel) selected() (domain.Property, bool) {
	if m.cursor < 0 || m.cursor >= len(m.properties) {
		return domain.Property{}, false
	}
	return m.properties[m.cursor], true
}

func (m propertiesModel) Update(msg tea.Msg) (propertiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case propertiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.properties = msg.properties
		}
		if m.cursor >= len(m.properties) {
			m.cursor = 0
		}
		return m, nil

	case otaMappingsMsg:
		m.mappingErr = msg.err
		if msg.err == nil {
			m.mappings[msg.propertyCode] = msg.mappings
		}
		return m, nil

	case propertyUpdatedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("update failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.properties {
			if m.properties[i].PropertyCode == msg.property.PropertyCode {
				m.properties[i] = *msg.property
			}
		}
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("could not open browser, visit %s", msg.url), true)
		} else {
			m.setStatus("opened "+msg.url, false)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *propertiesModel) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

func (m propertiesModel) updateKeys(msg tea.KeyMsg) (propertiesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.properties)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if p, ok := m.selected(); ok {
			return m, m.loadMappings(p.PropertyCode)
		}
	case "o":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		mappings, loaded := m.mappings[p.PropertyCode]
		if !loaded {
			m.setStatus("press enter to load listings first", true)
			return m, nil
		}
		url := firstListingURL(mappings)
		if url == "" {
			m.setStatus("no listing URL for "+p.PropertyCode, true)
			return m, nil
		}
		open := m.openURL
		return m, func() tea.Msg {
			return browserOpenedMsg{url: url, err: open(url)}
		}
	case "t":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		active := !p.Active
		c := m.client
		return m, func() tea.Msg {
			updated, err := c.UpdateProperty(context.Background(), p.PropertyCode, domain.PropertyUpdate{Active: &active})
			return propertyUpdatedMsg{property: updated, err: err}
		}
	case "r":
		m.loading = true
		m.mappings = make(map[string][]domain.OTAMapping)
		return m, m.Init()
	}
	return m, nil
}

func firstListingURL(mappings []domain.OTAMapping) string {
	for _, mp := range mappings {
		if mp.ListingURL != "" {
			return mp.ListingURL
		}
	}
	return ""
}

func (m propertiesModel) helpKeys() string {
	return helpBar(helpEntry("1-4", "tabs"), helpEntry("j/k", "nav"), helpEntry("enter", "listings"),
		helpEntry("o", "open listing"), helpEntry("t", "active"), helpEntry("r", "refresh"),
		helpEntry("h", "help"), helpEntry("q", "quit"))
}

func (m propertiesModel) View() string {
	var b strings.Builder

	b.WriteString(" " + headerLabelStyle.Render("PROPERTIES") + "  " + headerVoiceStyle.Render(fmt.Sprintf("%d units", len(m.properties))) + "\n")
	b.WriteString(separator(m.width) + "\n")

	if m.statusMsg != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString(" " + style.Render(m.statusMsg) + "\n")
	}
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.properties) == 0 {
		b.WriteString(" " + dimStyle.Render("no properties"))
		return b.String()
	}

	maxVisible := max((m.height-4)*3/5, 3)
	start, end := scrollWindow(m.cursor, len(m.properties), maxVisible)
	for i := start; i < end; i++ {
		p := m.properties[i]
		cursor := "  "
		textStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			textStyle = normalStyle.Bold(true)
		}
		active := statusOKStyle.Render("●")
		if !p.Active {
			active = metaStyle.Render("○")
		}
		code := accentStyle.Render(fmt.Sprintf("%-8s", truncStr(p.PropertyCode, 8)))
		name := fmt.Sprintf("%-24s", truncStr(p.Name, 24))
		group := metaStyle.Render(fmt.Sprintf("%-10s", truncStr(deref(p.GroupCode, "-"), 10)))
		rooms := metaStyle.Render(fmt.Sprintf("%3d rooms", p.RoomCount))

		line := cursor + active + " " + code + " " + textStyle.Render(name) + " " + group + " " + rooms
		if i == m.cursor {
			line = selectedRowBg.Render(line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0)))
		}
		b.WriteString(line + "\n")
	}

	if p, ok := m.selected(); ok {
		b.WriteString("\n" + m.viewMappings(p))
	}
	return b.String()
}

func (m propertiesModel) viewMappings(p domain.Property) string {
	var b strings.Builder
	header := " " + headerLabelStyle.Render("LISTINGS") + "  " + metaStyle.Render(p.PropertyCode)
	if p.Address != "" {
		header += "  " + dimStyle.Render(p.Address)
	}
	b.WriteString(header + "\n")

	mappings, loaded := m.mappings[p.PropertyCode]
	switch {
	case m.mappingErr != nil && !loaded:
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.mappingErr)) + "\n")
	case !loaded:
		b.WriteString(" " + dimStyle.Render("press enter to load listings") + "\n")
	case len(mappings) == 0:
		b.WriteString(" " + dimStyle.Render("not listed on any OTA") + "\n")
	default:
		for _, mp := range mappings {
			line := "  " + ChannelStyle(mp.OTA).Render(fmt.Sprintf("%-10s", mp.OTA)) + " " + dimStyle.Render(mp.ExternalID)
			if mp.ListingURL != "" {
				line += "  " + metaStyle.Render(mp.ListingURL)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
