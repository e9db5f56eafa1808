package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardOptions lists the choices offered by the setup wizard.
type WizardOptions struct {
	Deployments []string
	Languages   []string
	Algorithms  []string
	Wallets     []string // signing wallets; the step is skipped when empty
}

// WizardResult holds answers collected by the setup wizard.
type WizardResult struct {
	Deployment    string
	Language      string
	RPCAlgorithm  string
	DefaultWallet string
}

type wizardStep int

const (
	stepDeployment wizardStep = iota
	stepLanguage
	stepAlgorithm
	stepWallet
	stepDone
)

const skipWallet = "(skip)"

type wizardModel struct {
	opts     WizardOptions
	step     wizardStep
	result   WizardResult
	cursor   int
	choices  []string
	quitting bool
}

func newWizard(opts WizardOptions) wizardModel {
	m := wizardModel{opts: opts, step: stepDeployment - 1}
	m.advance()
	return m
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.applyChoice()
		m.advance()
		if m.step == stepDone {
			return m, tea.Quit
		}
	}
	return m, nil
}

// advance moves to the next step that has something to choose from.
func (m *wizardModel) advance() {
	for {
		m.step++
		m.cursor = 0
		switch m.step {
		case stepDeployment:
			m.choices = m.opts.Deployments
		case stepLanguage:
			m.choices = m.opts.Languages
		case stepAlgorithm:
			m.choices = m.opts.Algorithms
		case stepWallet:
			m.choices = nil
			if len(m.opts.Wallets) > 0 {
				m.choices = append([]string{skipWallet}, m.opts.Wallets...)
			}
		default:
			m.choices = nil
			return
		}
		if len(m.choices) > 0 {
			return
		}
	}
}

func (m *wizardModel) applyChoice() {
	if m.cursor >= len(m.choices) {
		return
	}
	v := m.choices[m.cursor]
	switch m.step {
	case stepDeployment:
		m.result.Deployment = v
	case stepLanguage:
		m.result.Language = v
	case stepAlgorithm:
		m.result.RPCAlgorithm = v
	case stepWallet:
		if v != skipWallet {
			m.result.DefaultWallet = v
		}
	}
}

func (m wizardModel) View() string {
	var s string
	switch m.step {
	case stepDeployment:
		s = renderMenu("Select deployment:", m.choices, m.cursor)
	case stepLanguage:
		s = renderMenu("Select dashboard language:", m.choices, m.cursor)
	case stepAlgorithm:
		s = renderMenu("Select RPC algorithm:", m.choices, m.cursor)
	case stepWallet:
		s = renderMenu("Select default wallet:", m.choices, m.cursor)
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}
	return StyleBorder.Render(s) + "\n"
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · q quit")
	return s
}

// RunWizard launches the interactive setup wizard. A nil result means the
// user quit before finishing.
func RunWizard(opts WizardOptions) (*WizardResult, error) {
	p := tea.NewProgram(newWizard(opts))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	fm := final.(wizardModel)
	if fm.quitting {
		return nil, nil
	}
	result := fm.result
	return &result, nil
}
