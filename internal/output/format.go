// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"taskboard/internal/service"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Printer renders displayed tasks to w.
type Printer struct {
	w      io.Writer
	format string

	low, medium, high lipgloss.Style
	done              lipgloss.Style
}

// NewPrinter returns a Printer for format. Colours are used only when w is a
// terminal that supports them.
func NewPrinter(w io.Writer, format string) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		format: format,
		low:    r.NewStyle().Foreground(lipgloss.Color("2")),
		medium: r.NewStyle().Foreground(lipgloss.Color("3")),
		high:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		done:   r.NewStyle().Faint(true).Strikethrough(true),
	}
}

// Tasks renders a task list.
func (p *Printer) Tasks(tasks []service.DisplayedTask) error {
	switch p.format {
	case FormatJSON:
		if tasks == nil {
			tasks = []service.DisplayedTask{}
		}
		return p.json(tasks)
	case FormatYAML:
		if tasks == nil {
			tasks = []service.DisplayedTask{}
		}
		return p.yaml(tasks)
	}

	width := idWidth(tasks)
	for _, t := range tasks {
		p.taskLine(width, t)
	}
	return nil
}

// Task renders a single task.
func (p *Printer) Task(t service.DisplayedTask) error {
	switch p.format {
	case FormatJSON:
		return p.json(t)
	case FormatYAML:
		return p.yaml(t)
	}
	p.taskLine(idWidth([]service.DisplayedTask{t}), t)
	return nil
}

// taskLine formats a task line.
// Format: "{ID:>width}  [x] {PRIORITY:<6}  {TITLE}\n"
func (p *Printer) taskLine(width int, t service.DisplayedTask) {
	check := " "
	title := normalizeTitle(t.Title)
	if t.Completed {
		check = "x"
		title = p.done.Render(title)
	}
	label := string(t.Priority)
	pad := strings.Repeat(" ", max(0, 6-len(label)))
	fmt.Fprintf(p.w, "%*s  [%s] %s%s  %s\n", width, t.ID, check, p.priorityStyle(t.Priority).Render(label), pad, title)
}

func (p *Printer) priorityStyle(pr service.Priority) lipgloss.Style {
	switch pr {
	case service.PriorityHigh:
		return p.high
	case service.PriorityLow:
		return p.low
	}
	return p.medium
}

func (p *Printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// idWidth is the widest id, at least 4 columns.
func idWidth(tasks []service.DisplayedTask) int {
	width := 4
	for _, t := range tasks {
		if len(t.ID) > width {
			width = len(t.ID)
		}
	}
	return width
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
