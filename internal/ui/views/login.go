package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrOportus/Tasklist/internal/service"
	"github.com/MrOportus/Tasklist/internal/ui/styles"
)

const authTimeout = 10 * time.Second

// AuthFailedMsg carries the latest login/registration error.
type AuthFailedMsg struct {
	Err error
}

// LoginView is the credential prompt shown while no session is active.
type LoginView struct {
	auth   *service.AuthService
	styles *styles.Styles

	email    textinput.Model
	password textinput.Model
	focus    int // 0=email, 1=password
	errMsg   string

	width  int
	height int
}

// NewLoginView creates the login form.
func NewLoginView(auth *service.AuthService, s *styles.Styles) *LoginView {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		auth:     auth,
		styles:   s,
		email:    email,
		password: password,
	}
}

// SetStyles swaps the style catalog, for dark-mode changes.
func (v *LoginView) SetStyles(s *styles.Styles) {
	v.styles = s
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *LoginView) Update(msg tea.Msg) (*LoginView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case AuthFailedMsg:
		// The latest error replaces any prior one.
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			v.focus = (v.focus + 1) % 2
			if v.focus == 0 {
				v.password.Blur()
				return v, v.email.Focus()
			}
			v.email.Blur()
			return v, v.password.Focus()

		case "enter":
			return v, v.submit(false)

		case "ctrl+s":
			return v, v.submit(true)
		}
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// submit authenticates off the UI loop. A successful call fires the
// identity-change notification, which drives the view switch; only
// failures come back here.
func (v *LoginView) submit(register bool) tea.Cmd {
	email := v.email.Value()
	password := v.password.Value()
	auth := v.auth

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		var err error
		if register {
			_, err = auth.Register(ctx, email, password)
		} else {
			_, err = auth.Login(ctx, email, password)
		}
		if err != nil {
			return AuthFailedMsg{Err: err}
		}
		return nil
	}
}

func (v *LoginView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Tasklist"))
	b.WriteString("\n\n")

	emailStyle := v.styles.Input
	passStyle := v.styles.Input
	if v.focus == 0 {
		emailStyle = v.styles.InputFocused
	} else {
		passStyle = v.styles.InputFocused
	}
	b.WriteString(emailStyle.Render(v.email.View()))
	b.WriteString("\n")
	b.WriteString(passStyle.Render(v.password.View()))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(v.styles.Error.Render(v.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render(
		v.styles.HelpKey.Render("enter") + v.styles.HelpDesc.Render(" sign in  ") +
			v.styles.HelpKey.Render("ctrl+s") + v.styles.HelpDesc.Render(" sign up  ") +
			v.styles.HelpKey.Render("ctrl+c") + v.styles.HelpDesc.Render(" quit"),
	))

	content := b.String()
	if v.width > 0 && v.height > 0 {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
