package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/taskline/internal/model"
	"github.com/sandeepkv93/taskline/internal/service"
	"github.com/sandeepkv93/taskline/internal/storage"
)

// Mode tells the update loop where keystrokes go: straight to the task
// list, or into the single shared text prompt.
type Mode string

const (
	ModeBrowse  Mode = "browse"
	ModeCapture Mode = "capture"
	ModeTag     Mode = "tag"
	ModeSearch  Mode = "search"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type FilterState struct {
	Status   string
	Priority string
	Search   string
}

type KeyMap struct {
	Capture        string
	Toggle         string
	Delete         string
	StatusFilter   string
	PriorityFilter string
	Tag            string
	Search         string
	ClearDone      string
	Help           string
	Quit           string
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Capture:        "a",
		Toggle:         " ",
		Delete:         "d",
		StatusFilter:   "f",
		PriorityFilter: "p",
		Tag:            "t",
		Search:         "/",
		ClearDone:      "C",
		Help:           "?",
		Quit:           "q",
	}
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type Model struct {
	svc *service.TaskService
	now func() time.Time

	Tasks       []model.Task
	Cursor      int
	Mode        Mode
	Filter      FilterState
	Counts      storage.Counts
	Status      StatusBar
	Keys        KeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	promptInput textinput.Model
	helpModel   help.Model
}

func NewModel(svc *service.TaskService) Model {
	input := textinput.New()
	input.Placeholder = "Buy groceries @shopping #high due:tomorrow at 3pm"
	input.CharLimit = 256
	input.Width = 64

	m := Model{
		svc:         svc,
		now:         time.Now,
		Mode:        ModeBrowse,
		Keys:        defaultKeyMap(),
		promptInput: input,
		helpModel:   help.New(),
	}
	m.reload()
	return m
}

func (m *Model) selectedTask() *model.Task {
	if len(m.Tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return nil
	}
	return &m.Tasks[m.Cursor]
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// cycleStatusFilter steps all -> incomplete -> complete -> all.
func (m *Model) cycleStatusFilter() {
	switch m.Filter.Status {
	case "":
		m.Filter.Status = string(model.StatusIncomplete)
	case string(model.StatusIncomplete):
		m.Filter.Status = string(model.StatusComplete)
	default:
		m.Filter.Status = ""
	}
}

// cyclePriorityFilter steps all -> high -> medium -> low -> all.
func (m *Model) cyclePriorityFilter() {
	switch m.Filter.Priority {
	case "":
		m.Filter.Priority = string(model.PriorityHigh)
	case string(model.PriorityHigh):
		m.Filter.Priority = string(model.PriorityMedium)
	case string(model.PriorityMedium):
		m.Filter.Priority = string(model.PriorityLow)
	default:
		m.Filter.Priority = ""
	}
}
