package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskline/internal/storage"
	"github.com/sandeepkv93/taskline/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Mode != ModeBrowse {
			return m.handlePromptKey(typed)
		}
		return m.handleBrowseKey(typed)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.setError(typed.Err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "j", "down":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case m.Keys.Capture:
		m.openPrompt(ModeCapture, "")
		return m, nil
	case m.Keys.Toggle:
		m.toggleSelected()
		return m, nil
	case m.Keys.Delete:
		m.deleteSelected()
		return m, nil
	case m.Keys.StatusFilter:
		m.cycleStatusFilter()
		m.reload()
		m.Status = StatusBar{Text: "filter: " + m.filterLine()}
		return m, nil
	case m.Keys.PriorityFilter:
		m.cyclePriorityFilter()
		m.reload()
		m.Status = StatusBar{Text: "filter: " + m.filterLine()}
		return m, nil
	case m.Keys.Tag:
		if m.selectedTask() == nil {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		m.openPrompt(ModeTag, "")
		return m, nil
	case m.Keys.Search:
		m.openPrompt(ModeSearch, m.Filter.Search)
		return m, nil
	case m.Keys.ClearDone:
		m.clearCompleted()
		return m, nil
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.closePrompt()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		m.submitPrompt()
		return m, nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(mode Mode, initial string) {
	m.Mode = mode
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
}

func (m *Model) closePrompt() {
	m.Mode = ModeBrowse
	m.promptInput.SetValue("")
	m.promptInput.Blur()
}

func (m *Model) submitPrompt() {
	value := strings.TrimSpace(m.promptInput.Value())
	switch m.Mode {
	case ModeCapture:
		m.submitCapture()
	case ModeTag:
		m.submitTag(value)
	case ModeSearch:
		m.Filter.Search = value
		m.closePrompt()
		m.reload()
		m.Status = StatusBar{Text: "filter: " + m.filterLine()}
	}
}

// submitCapture parses the raw line through the task grammar. On a
// parse error the input is kept so the line can be corrected in place;
// on success the prompt stays open for rapid entry.
func (m *Model) submitCapture() {
	raw := m.promptInput.Value()
	task, err := m.svc.AddFromString(context.Background(), raw)
	if err != nil {
		m.setError(err)
		return
	}
	m.promptInput.SetValue("")
	m.reload()
	m.Status = StatusBar{Text: "added: " + task.Description}
}

// submitTag adds the entered tag to the selected task, or removes it
// when prefixed with "-".
func (m *Model) submitTag(value string) {
	task := m.selectedTask()
	if task == nil || value == "" {
		m.closePrompt()
		return
	}
	var err error
	if name, removed := strings.CutPrefix(value, "-"); removed {
		_, err = m.svc.RemoveTag(context.Background(), task.ID, name)
	} else {
		_, err = m.svc.AddTag(context.Background(), task.ID, value)
	}
	m.closePrompt()
	if err != nil {
		m.setError(err)
		return
	}
	m.reload()
	m.Status = StatusBar{Text: "tags updated"}
}

func (m *Model) toggleSelected() {
	task := m.selectedTask()
	if task == nil {
		return
	}
	ctx := context.Background()
	var err error
	if task.IsComplete() {
		_, err = m.svc.Reopen(ctx, task.ID)
	} else {
		_, err = m.svc.Complete(ctx, task.ID)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.reload()
	m.Status = StatusBar{Text: "updated: " + task.Description}
}

func (m *Model) deleteSelected() {
	task := m.selectedTask()
	if task == nil {
		return
	}
	if err := m.svc.Delete(context.Background(), task.ID); err != nil {
		m.setError(err)
		return
	}
	m.reload()
	m.Status = StatusBar{Text: "deleted: " + task.Description}
}

func (m *Model) clearCompleted() {
	removed, err := m.svc.ClearCompleted(context.Background())
	if err != nil {
		m.setError(err)
		return
	}
	m.reload()
	m.Status = StatusBar{Text: fmt.Sprintf("cleared %d completed task(s)", removed)}
}

func (m *Model) reload() {
	ctx := context.Background()
	tasks, err := m.svc.List(ctx, storage.TaskFilter{
		Status:   m.Filter.Status,
		Priority: m.Filter.Priority,
		Search:   m.Filter.Search,
	})
	if err != nil {
		m.setError(err)
		return
	}
	counts, err := m.svc.Counts(ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.Tasks = tasks
	m.Counts = counts
	m.clampCursor()
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) filterLine() string {
	status := m.Filter.Status
	if status == "" {
		status = "all"
	}
	priority := m.Filter.Priority
	if priority == "" {
		priority = "all"
	}
	line := fmt.Sprintf("status=%s priority=%s", status, priority)
	if m.Filter.Search != "" {
		line += fmt.Sprintf(" search=%q", m.Filter.Search)
	}
	return line
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	body := views.RenderTaskList(m.taskListData())
	if m.HelpVisible {
		body = m.renderHelpView()
	}
	return views.RenderApp(views.AppData{
		Header:     "taskline",
		Body:       body,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     m.footerHints(),
	})
}

func (m Model) taskListData() views.TaskListData {
	today := m.now().UTC()
	rows := make([]views.TaskRowData, len(m.Tasks))
	for i, task := range m.Tasks {
		rows[i] = views.TaskRowData{
			Description: task.Description,
			Priority:    string(task.Priority),
			DueDate:     task.DueDate,
			Time:        task.Time,
			Duration:    task.Duration,
			AssignedTo:  task.AssignedTo,
			Tags:        task.Tags,
			Complete:    task.IsComplete(),
			Overdue:     task.Overdue(today),
			Selected:    i == m.Cursor && m.Mode == ModeBrowse,
		}
	}

	data := views.TaskListData{
		Rows: rows,
		CountsLine: fmt.Sprintf("%d total, %d open, %d done",
			m.Counts.Total, m.Counts.Incomplete, m.Counts.Complete),
	}
	if m.Filter != (FilterState{}) {
		data.FilterLine = "filter: " + m.filterLine()
	}
	if m.Mode != ModeBrowse {
		data.PromptName = string(m.Mode)
		data.PromptView = m.promptInput.View()
	}
	return data
}

func (m Model) footerHints() string {
	if m.Mode != ModeBrowse {
		return "enter submit  esc cancel"
	}
	return "a add  space done  d delete  f/p filter  t tag  / search  C clear done  ? help  q quit"
}
