package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle   = lipgloss.NewStyle().Faint(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	kindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idStyle    = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "passed":
		return passStyle
	case "failed":
		return failStyle
	case "skipped":
		return skipStyle
	}
	return trkStyle
}

// StatusText renders status padded to width in its color.
func StatusText(status string, width int) string {
	return statusStyle(status).Render(fmt.Sprintf("%-*s", width, status))
}

// StepLine prints one compiled action.
func StepLine(w io.Writer, index int, kind, call, description string) {
	fmt.Fprintf(w, "%3d  %s  %s\n", index+1, kindStyle.Render(fmt.Sprintf("%-8s", kind)), call)
	if description != "" {
		fmt.Fprintln(w, "        "+trkStyle.Render(description))
	}
}

// ActionLine prints the outcome of one executed action.
func ActionLine(w io.Writer, index int, status, description, detail string) {
	line := fmt.Sprintf("%3d  %s  %s", index+1, StatusText(status, 7), description)
	if detail != "" {
		line += "  " + trkStyle.Render(detail)
	}
	fmt.Fprintln(w, line)
}

// ReportHeader prints the header of one browser's report.
func ReportHeader(w io.Writer, browser, status, runID string) {
	fmt.Fprintf(w, "%s  %s  %s\n", titleStyle.Render(browser), StatusText(status, 0), idStyle.Render(runID))
}

func RunRow(w io.Writer, id, browser, status, prompt string, started time.Time, browserWidth int) {
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		idStyle.Render(shortID(id)),
		started.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%-*s", browserWidth, browser),
		StatusText(status, 6),
		prompt,
	)
}

func ShowHeader(w io.Writer, id, prompt, browser string) {
	fmt.Fprintln(w, titleStyle.Render("run "+id))
	fmt.Fprintf(w, "prompt:  %s\nbrowser: %s\n", prompt, browser)
}

func ShowStatus(w io.Writer, status string, took time.Duration) {
	fmt.Fprintf(w, "status:  %s (%s)\n", StatusText(status, 0), took.Round(time.Millisecond))
}

// ResultSummary prints the closing line of a run.
func ResultSummary(w io.Writer, passed, failed int) {
	style := passStyle
	if failed > 0 {
		style = failStyle
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%d passed, %d failed", passed, failed)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
