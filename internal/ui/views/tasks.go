package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/service"
	"github.com/MrOportus/Tasklist/internal/ui/styles"
)

const storeTimeout = 10 * time.Second

// SnapshotMsg delivers the latest full result set of one live subscription.
type SnapshotMsg struct {
	Type  string
	Tasks []model.Task
}

// StoreErrorMsg carries the latest failed user-initiated store operation.
type StoreErrorMsg struct {
	Err error
}

// ToggleDarkModeMsg asks the app to flip the dark-mode preference.
type ToggleDarkModeMsg struct{}

// CycleResetTimeMsg asks the app to advance the reset-time preference.
type CycleResetTimeMsg struct{}

// LogoutMsg asks the app to end the session.
type LogoutMsg struct{}

// section indices within the task view.
const (
	sectionDaily = iota
	sectionMonthly
)

// TaskListView renders the two live task lists and wires user actions to
// the task service.
type TaskListView struct {
	svc    *service.TaskService
	userID string
	styles *styles.Styles

	daily   []model.Task
	monthly []model.Task

	section int
	cursor  [2]int

	adding   bool
	addInput textinput.Model

	errMsg    string
	resetTime string

	width  int
	height int
}

// NewTaskListView creates the task view for an authenticated identity.
func NewTaskListView(svc *service.TaskService, userID, resetTime string, s *styles.Styles) *TaskListView {
	input := textinput.New()
	input.Placeholder = "New task"
	input.CharLimit = 200

	return &TaskListView{
		svc:       svc,
		userID:    userID,
		styles:    s,
		addInput:  input,
		resetTime: resetTime,
	}
}

// SetStyles swaps the style catalog, for dark-mode changes.
func (v *TaskListView) SetStyles(s *styles.Styles) {
	v.styles = s
}

// SetResetTime updates the reset time shown in the daily section header.
func (v *TaskListView) SetResetTime(t string) {
	v.resetTime = t
}

func (v *TaskListView) Init() tea.Cmd {
	return nil
}

func (v *TaskListView) tasksIn(section int) []model.Task {
	if section == sectionDaily {
		return v.daily
	}
	return v.monthly
}

func (v *TaskListView) selected() *model.Task {
	tasks := v.tasksIn(v.section)
	idx := v.cursor[v.section]
	if idx < 0 || idx >= len(tasks) {
		return nil
	}
	return &tasks[idx]
}

func (v *TaskListView) clampCursor() {
	for s := 0; s < 2; s++ {
		max := len(v.tasksIn(s)) - 1
		if v.cursor[s] > max {
			v.cursor[s] = max
		}
		if v.cursor[s] < 0 {
			v.cursor[s] = 0
		}
	}
}

func (v *TaskListView) Update(msg tea.Msg) (*TaskListView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case SnapshotMsg:
		if msg.Type == model.TypeDaily {
			v.daily = msg.Tasks
		} else {
			v.monthly = msg.Tasks
		}
		v.clampCursor()
		return v, nil

	case StoreErrorMsg:
		// The latest error replaces any prior one.
		v.errMsg = msg.Err.Error()
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.updateAdding(msg)
		}
		return v.updateList(msg)
	}

	return v, nil
}

func (v *TaskListView) updateAdding(msg tea.KeyMsg) (*TaskListView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.addInput.Reset()
		return v, nil

	case "enter":
		text := v.addInput.Value()
		v.adding = false
		v.addInput.Reset()
		return v, v.createTask(text, v.section)
	}

	var cmd tea.Cmd
	v.addInput, cmd = v.addInput.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateList(msg tea.KeyMsg) (*TaskListView, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.section = (v.section + 1) % 2
		return v, nil

	case "up", "k":
		if v.cursor[v.section] > 0 {
			v.cursor[v.section]--
		}
		return v, nil

	case "down", "j":
		if v.cursor[v.section] < len(v.tasksIn(v.section))-1 {
			v.cursor[v.section]++
		}
		return v, nil

	case "a":
		v.adding = true
		v.addInput.Reset()
		return v, v.addInput.Focus()

	case " ", "enter":
		if task := v.selected(); task != nil {
			return v, v.toggleTask(task.ID, task.Completed)
		}
		return v, nil

	case "x", "delete":
		if task := v.selected(); task != nil {
			return v, v.deleteTask(task.ID)
		}
		return v, nil

	case "d":
		return v, func() tea.Msg { return ToggleDarkModeMsg{} }

	case "r":
		return v, func() tea.Msg { return CycleResetTimeMsg{} }

	case "ctrl+l":
		return v, func() tea.Msg { return LogoutMsg{} }
	}

	return v, nil
}

func (v *TaskListView) createTask(text string, section int) tea.Cmd {
	svc, userID, resetTime := v.svc, v.userID, v.resetTime
	typ := model.TypeDaily
	if section == sectionMonthly {
		typ = model.TypeMonthly
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, err := svc.Create(ctx, userID, text, typ, resetTime); err != nil {
			return StoreErrorMsg{Err: err}
		}
		return nil
	}
}

func (v *TaskListView) toggleTask(taskID string, completed bool) tea.Cmd {
	svc, userID := v.svc, v.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := svc.SetCompleted(ctx, userID, taskID, !completed); err != nil {
			return StoreErrorMsg{Err: err}
		}
		return nil
	}
}

func (v *TaskListView) deleteTask(taskID string) tea.Cmd {
	svc, userID := v.svc, v.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := svc.Delete(ctx, userID, taskID); err != nil {
			return StoreErrorMsg{Err: err}
		}
		return nil
	}
}

func (v *TaskListView) renderSection(title string, section int) string {
	var b strings.Builder
	b.WriteString(v.styles.SectionTitle.Render(title))
	b.WriteString("\n")

	tasks := v.tasksIn(section)
	if len(tasks) == 0 {
		b.WriteString(v.styles.TitleMuted.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, task := range tasks {
		box := v.styles.Checkbox.Render("☐")
		text := v.styles.ListItem.Render(task.Text)
		if task.Completed {
			box = v.styles.CheckboxDone.Render("☑")
			text = v.styles.TaskDone.Render(task.Text)
		}

		prefix := "  "
		if section == v.section && i == v.cursor[section] {
			prefix = v.styles.ListSelected.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, box, text))
	}

	if v.adding && section == v.section {
		b.WriteString(v.styles.InputFocused.Render(v.addInput.View()))
		b.WriteString("\n")
	}

	return v.styles.Section.Render(strings.TrimRight(b.String(), "\n"))
}

func (v *TaskListView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Tasklist"))
	b.WriteString("\n\n")

	b.WriteString(v.renderSection(fmt.Sprintf("Daily Tasks · reset %s", v.resetTime), sectionDaily))
	b.WriteString("\n")
	b.WriteString(v.renderSection("Monthly Tasks", sectionMonthly))
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString(v.styles.Error.Render(v.errMsg))
		b.WriteString("\n")
	}

	help := []struct{ key, desc string }{
		{"tab", "section"},
		{"a", "add"},
		{"space", "toggle"},
		{"x", "delete"},
		{"r", "reset time"},
		{"d", "dark mode"},
		{"ctrl+l", "logout"},
		{"ctrl+c", "quit"},
	}
	var hb strings.Builder
	for _, h := range help {
		hb.WriteString(v.styles.HelpKey.Render(h.key))
		hb.WriteString(v.styles.HelpDesc.Render(" " + h.desc + "  "))
	}
	b.WriteString(v.styles.Help.Render(hb.String()))

	content := b.String()
	if v.width > 0 {
		return lipgloss.NewStyle().MaxWidth(v.width).Render(content)
	}
	return content
}
