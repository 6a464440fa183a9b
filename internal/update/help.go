package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskline/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

const helpMarkdown = `# taskline

Type a task the way you would say it. The capture prompt understands:

- **@tag** labels a task, repeatable
- **#high / #medium / #low** sets the priority
- **due:YYYY-MM-DD** or **due:tomorrow**, **due:next week** sets a due date
- **assigned:name@example.com** assigns the task
- **at 3pm**, **by 14:30** records a time
- **2h30m** records an estimated duration

Everything else becomes the task description.
`

func (m Model) keyBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Capture, Action: "capture a new task"},
		{Key: "space", Action: "complete / reopen"},
		{Key: m.Keys.Delete, Action: "delete task"},
		{Key: m.Keys.StatusFilter, Action: "cycle status filter"},
		{Key: m.Keys.PriorityFilter, Action: "cycle priority filter"},
		{Key: m.Keys.Tag, Action: "add tag (-tag removes)"},
		{Key: m.Keys.Search, Action: "search descriptions"},
		{Key: m.Keys.ClearDone, Action: "clear completed tasks"},
		{Key: "j/k", Action: "move cursor"},
		{Key: m.Keys.Help, Action: "toggle this help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) renderHelpView() string {
	bindings := make([]key.Binding, 0, len(m.keyBindings()))
	for _, kb := range m.keyBindings() {
		bindings = append(bindings, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Rendered: views.RenderMarkdown(helpMarkdown),
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}
