package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoginResult is what the login form hands back to the command layer.
// QuickConnect set means the user chose the code flow instead of entering
// credentials.
type LoginResult struct {
	Username     string
	Password     string
	QuickConnect bool
}

type loginModel struct {
	serverURL string
	inputs    []textinput.Model
	focus     int

	quick   bool
	aborted bool
}

// RunLoginForm shows the interactive credentials form. A pre-filled
// username skips straight to the password field.
func RunLoginForm(serverURL, username string) (LoginResult, error) {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 100
	user.Width = 32
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 100
	pass.Width = 32
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	m := loginModel{
		serverURL: serverURL,
		inputs:    []textinput.Model{user, pass},
	}
	if username != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return LoginResult{}, err
	}

	form, ok := final.(loginModel)
	if !ok || form.aborted {
		return LoginResult{}, fmt.Errorf("login cancelled")
	}
	if form.quick {
		return LoginResult{QuickConnect: true}, nil
	}

	result := LoginResult{
		Username: strings.TrimSpace(form.inputs[0].Value()),
		Password: form.inputs[1].Value(),
	}
	if result.Username == "" {
		return LoginResult{}, fmt.Errorf("username is required")
	}
	return result, nil
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit

		case "ctrl+q":
			m.quick = true
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focus].Blur()
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focus--
			} else {
				m.focus++
			}
			if m.focus < 0 {
				m.focus = len(m.inputs) - 1
			}
			if m.focus >= len(m.inputs) {
				m.focus = 0
			}
			m.inputs[m.focus].Focus()
			return m, nil

		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.inputs[m.focus].Blur()
				m.focus++
				m.inputs[m.focus].Focus()
				return m, nil
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in to " + m.serverURL))
	b.WriteString("\n\n")

	labels := []string{"Username", "Password"}
	for i, input := range m.inputs {
		label := infoStyle.Render(fmt.Sprintf("%-10s", labels[i]))
		b.WriteString("  " + label + input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  enter: sign in • tab: next field • ctrl+q: quick connect • esc: cancel"))
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
