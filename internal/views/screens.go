package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Description string
	Priority    string
	DueDate     string
	Time        string
	Duration    string
	AssignedTo  string
	Tags        []string
	Complete    bool
	Overdue     bool
	Selected    bool
}

type TaskListData struct {
	Rows       []TaskRowData
	FilterLine string
	CountsLine string
	PromptView string
	PromptName string
}

type HelpPanelData struct {
	Rendered string
	HelpView string
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	if data.PromptName != "" {
		b.WriteString(data.PromptName + ": " + data.PromptView + "\n")
	}
	if data.FilterLine != "" {
		b.WriteString(metaStyle.Render(data.FilterLine) + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("no tasks. press a to add one.\n")
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row) + "\n")
	}
	if data.CountsLine != "" {
		b.WriteString(metaStyle.Render(data.CountsLine))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskRow(row TaskRowData) string {
	cursor := "  "
	if row.Selected {
		cursor = selectedStyle.Render("> ")
	}
	marker := "[ ]"
	if row.Complete {
		marker = "[x]"
	}

	title := row.Description
	if row.Complete {
		title = doneStyle.Render(title)
	} else if row.Selected {
		title = selectedStyle.Render(title)
	}

	parts := []string{cursor + marker + " " + title}
	if row.Priority != "" {
		parts = append(parts, renderPriority(row.Priority))
	}
	if row.DueDate != "" {
		due := "due " + row.DueDate
		if row.Overdue {
			due = overdueStyle.Render(due + " (overdue)")
		} else {
			due = metaStyle.Render(due)
		}
		parts = append(parts, due)
	}
	if row.Time != "" {
		parts = append(parts, metaStyle.Render("at "+row.Time))
	}
	if row.Duration != "" {
		parts = append(parts, metaStyle.Render(row.Duration))
	}
	if row.AssignedTo != "" {
		parts = append(parts, metaStyle.Render("-> "+row.AssignedTo))
	}
	for _, tag := range row.Tags {
		parts = append(parts, tagStyle.Render("@"+tag))
	}
	return strings.Join(parts, "  ")
}

func renderPriority(priority string) string {
	label := fmt.Sprintf("#%s", priority)
	switch priority {
	case "high":
		return highStyle.Render(label)
	case "medium":
		return mediumStyle.Render(label)
	case "low":
		return lowStyle.Render(label)
	default:
		return label
	}
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(data.Rendered)
	if data.HelpView != "" {
		b.WriteString("\n\n" + data.HelpView)
	}
	return strings.TrimSpace(b.String())
}
