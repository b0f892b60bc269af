package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/bike-town/pkg/game"
	"github.com/jwebster45206/bike-town/pkg/state"
	"github.com/jwebster45206/bike-town/pkg/world"
)

const (
	GameTitle       = "BIKE IN TOWN"
	PlaceHolderText = "Type a command (help for a list)..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *state.GameState
	locations    []world.Location
	visited      map[int]bool
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// An unresolved event is waiting at the current location.
	pendingEvent bool

	// Quit confirmation state
	showQuitModal bool

	log []logEntry
}

type logEntry struct {
	role string // "narrator", "player", "error", "banner"
	text string
}

type moveResultMsg struct {
	result *game.MoveResult
	err    error
}

type purchaseResultMsg struct {
	result *game.PurchaseResult
	err    error
}

type eventResultMsg struct {
	result *game.EventResult
	err    error
}

type reachableMsg struct {
	items []world.ReachableLocation
	err   error
}

var titleCaser = cases.Title(language.English)

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *state.GameState, locations []world.Location) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := ConsoleUI{
		config:       cfg,
		client:       client,
		gameState:    gs,
		locations:    locations,
		visited:      map[int]bool{gs.LocationID: true},
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
		ready:        false,
	}
	ui.log = append(ui.log, logEntry{role: "narrator", text: storyIntro(gs.PlayerName)})
	return ui
}

func (m *ConsoleUI) locationByID(id int) *world.Location {
	for i := range m.locations {
		if m.locations[i].ID == id {
			return &m.locations[i]
		}
	}
	return nil
}

func (m *ConsoleUI) locationName(id int) string {
	if loc := m.locationByID(id); loc != nil {
		return loc.Name
	}
	return fmt.Sprintf("#%d", id)
}

func (m *ConsoleUI) appendLog(role, text string) {
	m.log = append(m.log, logEntry{role: role, text: text})
}

// writeLogContent rebuilds the log content for the current viewport width
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6 // Account for left(3) + right(3) padding
	if logWidth < 20 {
		logWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(GameTitle) + "\n\n")
	content.WriteString("Type commands below to explore the town.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth-6)) + "\n\n")

	for _, entry := range m.log {
		switch entry.role {
		case "player":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.text, logWidth-6) + "\n\n")
		case "error":
			content.WriteString(errorStyle.Render(wordwrap.String(entry.text, logWidth)) + "\n\n")
		case "banner":
			content.WriteString(bannerStyle.Render(wordwrap.String(entry.text, logWidth)) + "\n\n")
		case "map":
			// Pre-formatted, do not wrap
			content.WriteString(entry.text + "\n\n")
		default:
			content.WriteString(narratorStyle.Render(wordwrap.String(entry.text, logWidth)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(promptStyle.Render("...") + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	gs := m.gameState
	var content strings.Builder
	content.WriteString(titleStyle.Render("RIDER") + "\n\n")

	content.WriteString("Name:\n")
	content.WriteString(gs.PlayerName + "\n\n")

	content.WriteString(fmt.Sprintf("Money: $%d\n", gs.Money))
	content.WriteString(fmt.Sprintf("Energy: %d\n\n", gs.Energy))

	content.WriteString("Location:\n")
	content.WriteString(m.locationName(gs.LocationID) + "\n\n")

	if gs.KeyFound {
		content.WriteString("Key: found!\n\n")
	} else {
		content.WriteString("Key: not yet\n\n")
	}

	content.WriteString(fmt.Sprintf("Visited: %d/%d\n\n", len(m.visited), len(m.locations)))

	if m.pendingEvent {
		content.WriteString(bannerStyle.Render("Something is here...") + "\n")
		content.WriteString("open / skip\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• move <place>\n")
	content.WriteString("• reachable\n")
	content.WriteString("• buy <amount>\n")
	content.WriteString("• map\n")
	content.WriteString("• locations\n")
	content.WriteString("• story\n")
	content.WriteString("• help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case moveResultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLog("error", describeError(msg.err))
		} else {
			m.gameState = msg.result.GameState
			m.visited[m.gameState.LocationID] = true
			m.appendLog("narrator", fmt.Sprintf(
				"You pedal %d block(s) over %s roads to %s. The ride costs %d energy.",
				msg.result.Distance, msg.result.Route.Condition,
				msg.result.Location.Name, msg.result.EnergyCost))
			if msg.result.Event != nil {
				m.pendingEvent = true
				m.appendLog("narrator", "Something at this spot catches your eye. Type 'open' to investigate, or 'skip' to ride on.")
			}
			m.appendOutcome(msg.result.Outcome)
		}
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case purchaseResultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLog("error", describeError(msg.err))
		} else {
			m.gameState = msg.result.GameState
			m.appendLog("narrator", fmt.Sprintf(
				"You trade $%d for %d energy. Money: $%d, energy: %d.",
				msg.result.Amount, msg.result.Amount, m.gameState.Money, m.gameState.Energy))
		}
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case eventResultMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLog("error", describeError(msg.err))
		} else {
			m.pendingEvent = false
			m.gameState = msg.result.GameState
			if msg.result.Accepted {
				m.appendLog("narrator", msg.result.Event.Name+". "+msg.result.Event.Description)
				if msg.result.MoneyChange != 0 || msg.result.EnergyChange != 0 {
					m.appendLog("narrator", fmt.Sprintf(
						"Money %s, energy %s.",
						signed(msg.result.MoneyChange), signed(msg.result.EnergyChange)))
				}
				if msg.result.KeyFound {
					m.appendLog("banner", "You found the key! Ride home to claim the treasure.")
				}
			} else {
				m.appendLog("narrator", "You decide not to poke around and ride on. Whatever it was is still there.")
			}
			m.appendOutcome(msg.result.Outcome)
		}
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case reachableMsg:
		m.loading = false
		if msg.err != nil {
			m.appendLog("error", describeError(msg.err))
		} else if len(msg.items) == 0 {
			m.appendLog("narrator", "Nowhere is reachable on your current energy. Try buying some.")
		} else {
			var sb strings.Builder
			sb.WriteString("Within reach:\n")
			for _, r := range msg.items {
				sb.WriteString(fmt.Sprintf("  %-18s %d block(s), %d energy (%s roads)\n",
					r.Location.Name, r.Distance, r.EnergyCost, r.Route.Condition))
			}
			m.appendLog("map", narratorStyle.Render(sb.String()))
		}
		m.writeLogContent()
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) appendOutcome(outcome game.Outcome) {
	switch outcome.Status {
	case state.StatusWon:
		m.appendLog("banner", "You made it home with the key. The treasure is yours. YOU WIN!")
		m.appendLog("narrator", "Thanks for playing. Ctrl+C to quit.")
	case state.StatusLost:
		m.appendLog("banner", "Out of energy and out of money, far from home. GAME OVER.")
		m.appendLog("narrator", "Thanks for playing. Ctrl+C to quit.")
	default:
		if outcome.StrandedWarning {
			m.appendLog("narrator", "Your legs are done, but your pockets aren't empty. Buy energy to keep riding.")
		}
	}
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.appendLog("player", input)

	fields := strings.Fields(input)
	verb := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch verb {
	case "help":
		m.appendLog("narrator", helpText())

	case "story":
		m.appendLog("narrator", storyIntro(m.gameState.PlayerName))

	case "map":
		m.appendLog("map", m.renderTownMap())

	case "locations":
		var sb strings.Builder
		sb.WriteString("The town:\n")
		for _, loc := range m.locations {
			marker := " "
			if loc.ID == m.gameState.LocationID {
				marker = "@"
			} else if m.visited[loc.ID] {
				marker = "*"
			}
			sb.WriteString(fmt.Sprintf("  %s %-18s (%d,%d)\n", marker, loc.Name, loc.X, loc.Y))
		}
		sb.WriteString("\n@ you are here, * visited")
		m.appendLog("map", narratorStyle.Render(sb.String()))

	case "reachable":
		m.loading = true
		m.writeLogContent()
		return m, m.fetchReachable()

	case "move", "go", "ride":
		if arg == "" {
			m.appendLog("error", "Move where? Try 'move Town Square' or 'locations' to see the map.")
			break
		}
		if m.pendingEvent {
			m.appendLog("error", "Something here needs your attention first. 'open' or 'skip'.")
			break
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendMove(titleCaser.String(strings.ToLower(arg)))

	case "buy":
		amount, err := strconv.Atoi(arg)
		if err != nil {
			m.appendLog("error", "Buy how much? Try 'buy 10'.")
			break
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendBuy(amount)

	case "open", "yes", "y":
		if !m.pendingEvent {
			m.appendLog("error", "There is nothing here to open.")
			break
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(true)

	case "skip", "no", "n":
		if !m.pendingEvent {
			m.appendLog("error", "There is nothing here to skip.")
			break
		}
		m.loading = true
		m.writeLogContent()
		return m, m.sendEvent(false)

	case "quit", "exit":
		m.showQuitModal = true
		return m, nil

	default:
		m.appendLog("error", fmt.Sprintf("Unknown command %q. Type 'help' for a list.", verb))
	}

	m.writeLogContent()
	m.metaViewport.SetContent(m.writeMetadata())
	return m, nil
}

func helpText() string {
	return `Commands:
  move <place>  ride to a location by name
  reachable     list locations you can afford to reach
  buy <amount>  trade money for energy, 1 for 1
  open / skip   investigate or ignore what you found
  map           draw the town grid
  locations     list every location
  story         re-read the intro
  quit          leave the game

Riding costs energy: blocks traveled times the road
condition. Find the key, then get home.`
}

// renderTownMap draws the 5x5 grid with the player, home, and visited marks.
func (m *ConsoleUI) renderTownMap() string {
	grid := make(map[[2]int]*world.Location, len(m.locations))
	for i := range m.locations {
		loc := &m.locations[i]
		grid[[2]int{loc.X, loc.Y}] = loc
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for x := 0; x < world.GridSize; x++ {
		sb.WriteString(fmt.Sprintf(" %d  ", x))
	}
	sb.WriteString("\n")
	for y := 0; y < world.GridSize; y++ {
		sb.WriteString(fmt.Sprintf("  %d ", y))
		for x := 0; x < world.GridSize; x++ {
			loc, ok := grid[[2]int{x, y}]
			switch {
			case !ok:
				sb.WriteString("    ")
			case loc.ID == m.gameState.LocationID:
				sb.WriteString("[@] ")
			case loc.IsHome:
				sb.WriteString("[H] ")
			case m.visited[loc.ID]:
				sb.WriteString("[*] ")
			default:
				sb.WriteString("[ ] ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n@ you, H home, * visited")
	return narratorStyle.Render(sb.String())
}

func (m ConsoleUI) sendMove(location string) tea.Cmd {
	return func() tea.Msg {
		result, err := moveTo(m.client, m.config.APIBaseURL, m.gameState.ID, location)
		return moveResultMsg{result, err}
	}
}

func (m ConsoleUI) sendBuy(amount int) tea.Cmd {
	return func() tea.Msg {
		result, err := buyEnergy(m.client, m.config.APIBaseURL, m.gameState.ID, amount)
		return purchaseResultMsg{result, err}
	}
}

func (m ConsoleUI) sendEvent(accept bool) tea.Cmd {
	return func() tea.Msg {
		result, err := resolveEvent(m.client, m.config.APIBaseURL, m.gameState.ID, accept)
		return eventResultMsg{result, err}
	}
}

func (m ConsoleUI) fetchReachable() tea.Cmd {
	return func() tea.Msg {
		items, err := listReachable(m.client, m.config.APIBaseURL, m.gameState.ID)
		return reachableMsg{items, err}
	}
}

// describeError turns a structured rejection into friendly narration.
func describeError(err error) string {
	var rejErr *rejectionError
	if !errors.As(err, &rejErr) {
		return "Error: " + err.Error()
	}

	rej := rejErr.rejection
	switch rej.Reason {
	case game.ReasonInsufficientEnergy:
		msg := fmt.Sprintf("Your legs give out just thinking about it. That ride takes %d energy and you have %d.",
			rej.Needed, rej.Available)
		if rej.Route != nil {
			msg += fmt.Sprintf(" The roads that way are %s.", rej.Route.Condition)
		}
		return msg
	case game.ReasonInsufficientFunds:
		return fmt.Sprintf("You count your money twice. You need $%d but only have $%d.",
			rej.Needed, rej.Available)
	case game.ReasonSameLocation:
		return "You are already there. A very short ride."
	case game.ReasonUnknownLocation:
		return "You don't know that place. Try 'locations'."
	case game.ReasonGameFinished:
		return "The game is over. Ctrl+C to quit."
	default:
		return rej.Message
	}
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return strconv.Itoa(n)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to hang up the bike?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
