package ui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/prefs"
	"github.com/MrOportus/Tasklist/internal/service"
	"github.com/MrOportus/Tasklist/internal/ui/styles"
	"github.com/MrOportus/Tasklist/internal/ui/views"
)

// IdentityChangedMsg reports an identity transition from the credential
// gate: nil on logout, the new user on login or substitution.
type IdentityChangedMsg struct {
	User *model.User
}

// resetTimeChoices are the selectable reset times, cycled with the
// reset-time key.
var resetTimeChoices = []string{"08:00", "12:00", "16:00"}

// Currently active view.
type View int

const (
	ViewLogin View = iota
	ViewTasks
)

// App routes between the login and task views and owns the session-scoped
// resources: the two live subscriptions and the reset scheduler. Both are
// established and torn down purely in reaction to identity changes.
type App struct {
	auth       *service.AuthService
	tasks      *service.TaskService
	reset      *service.ResetService
	prefsStore *prefs.Store

	currentView View
	login       *views.LoginView
	taskList    *views.TaskListView
	styles      *styles.Styles

	dailySub   *service.Subscription
	monthlySub *service.Subscription

	width  int
	height int
}

// NewApp creates the application. Preferences must already be loaded on
// the store.
func NewApp(auth *service.AuthService, tasks *service.TaskService, reset *service.ResetService, prefsStore *prefs.Store) *App {
	s := stylesFor(prefsStore.Current())
	return &App{
		auth:        auth,
		tasks:       tasks,
		reset:       reset,
		prefsStore:  prefsStore,
		currentView: ViewLogin,
		login:       views.NewLoginView(auth, s),
		styles:      s,
	}
}

func stylesFor(p prefs.Preferences) *styles.Styles {
	if p.DarkMode {
		return styles.NewStyles(styles.Dark)
	}
	return styles.NewStyles(styles.Light)
}

func (a *App) Init() tea.Cmd {
	// A session restored from the token cache skips the login view.
	if u := a.auth.Current(); u != nil {
		user := *u
		return tea.Batch(a.login.Init(), func() tea.Msg {
			return IdentityChangedMsg{User: &user}
		})
	}
	return a.login.Init()
}

// waitForSnapshot pumps one subscription delivery into the update loop.
// The command re-arms itself from the SnapshotMsg handler; a cancelled
// subscription ends the pump by closing its channel.
func waitForSnapshot(sub *service.Subscription, typ string) tea.Cmd {
	return func() tea.Msg {
		tasks, ok := <-sub.C
		if !ok {
			return nil
		}
		return views.SnapshotMsg{Type: typ, Tasks: tasks}
	}
}

// openSession establishes the session-scoped resources for user.
func (a *App) openSession(user model.User) tea.Cmd {
	a.closeSession()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	daily, err := a.tasks.Subscribe(ctx, user.ID, model.TypeDaily)
	if err != nil {
		log.Printf("subscribe daily: %v", err)
		return func() tea.Msg { return views.AuthFailedMsg{Err: err} }
	}
	monthly, err := a.tasks.Subscribe(ctx, user.ID, model.TypeMonthly)
	if err != nil {
		daily.Cancel()
		log.Printf("subscribe monthly: %v", err)
		return func() tea.Msg { return views.AuthFailedMsg{Err: err} }
	}

	a.dailySub = daily
	a.monthlySub = monthly

	if err := a.reset.Start(user.ID); err != nil {
		log.Printf("start reset scheduler: %v", err)
	}

	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.tasks, user.ID, a.prefsStore.ResetTime(), a.styles)

	return tea.Batch(
		a.taskList.Init(),
		waitForSnapshot(daily, model.TypeDaily),
		waitForSnapshot(monthly, model.TypeMonthly),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

// closeSession cancels the subscriptions and stops the scheduler. Safe to
// call when no session resources exist.
func (a *App) closeSession() {
	if a.dailySub != nil {
		a.dailySub.Cancel()
		a.dailySub = nil
	}
	if a.monthlySub != nil {
		a.monthlySub.Cancel()
		a.monthlySub = nil
	}
	a.reset.Stop()
	a.taskList = nil
}

func (a *App) subFor(typ string) *service.Subscription {
	if typ == model.TypeDaily {
		return a.dailySub
	}
	return a.monthlySub
}

func (a *App) savePrefs(p prefs.Preferences) {
	if err := a.prefsStore.Save(p); err != nil {
		log.Printf("save preferences: %v", err)
	}
	a.styles = stylesFor(p)
	a.login.SetStyles(a.styles)
	if a.taskList != nil {
		a.taskList.SetStyles(a.styles)
		a.taskList.SetResetTime(p.ResetTime)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Fall through to the active view below.

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeSession()
			return a, tea.Quit
		}

	case IdentityChangedMsg:
		if msg.User == nil {
			a.closeSession()
			a.currentView = ViewLogin
			return a, a.login.Init()
		}
		return a, a.openSession(*msg.User)

	case views.SnapshotMsg:
		var cmd tea.Cmd
		if a.taskList != nil {
			a.taskList, cmd = a.taskList.Update(msg)
		}
		sub := a.subFor(msg.Type)
		if sub == nil {
			return a, cmd
		}
		return a, tea.Batch(cmd, waitForSnapshot(sub, msg.Type))

	case views.ToggleDarkModeMsg:
		p := a.prefsStore.Current()
		p.DarkMode = !p.DarkMode
		a.savePrefs(p)
		return a, nil

	case views.CycleResetTimeMsg:
		p := a.prefsStore.Current()
		next := resetTimeChoices[0]
		for i, t := range resetTimeChoices {
			if t == p.ResetTime {
				next = resetTimeChoices[(i+1)%len(resetTimeChoices)]
				break
			}
		}
		p.ResetTime = next
		a.savePrefs(p)
		return a, nil

	case views.LogoutMsg:
		auth := a.auth
		// Off the update loop: the identity-change notification comes
		// back through the program's message channel.
		return a, func() tea.Msg {
			if err := auth.Logout(); err != nil {
				return views.StoreErrorMsg{Err: err}
			}
			return nil
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		a.login, cmd = a.login.Update(msg)
	case ViewTasks:
		if a.taskList != nil {
			a.taskList, cmd = a.taskList.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewTasks && a.taskList != nil {
		return a.taskList.View()
	}
	return a.login.View()
}
