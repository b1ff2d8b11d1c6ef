package cli

import (
	"github.com/fatih/color"
)

// statusLabel colorizes a record status for terminal output.
func statusLabel(status string) string {
	switch status {
	case "pending":
		return color.New(color.FgHiBlack).Sprint(status)
	case "in_progress":
		return color.New(color.FgHiBlue).Sprint(status)
	case "completed":
		return color.New(color.FgHiGreen).Sprint(status)
	case "blocked":
		return color.New(color.FgYellow).Sprint(status)
	case "cancelled":
		return color.New(color.FgRed).Sprint(status)
	}
	return status
}

// severityLabel colorizes a violation or conflict severity.
func severityLabel(severity string) string {
	switch severity {
	case "high":
		return color.New(color.FgRed).Sprint(severity)
	case "medium":
		return color.New(color.FgYellow).Sprint(severity)
	case "low":
		return color.New(color.FgHiBlack).Sprint(severity)
	}
	return severity
}

// rollbackStatusLabel colorizes a rollback status.
func rollbackStatusLabel(status string) string {
	switch status {
	case "pending":
		return color.New(color.FgHiBlue).Sprint(status)
	case "completed":
		return color.New(color.FgHiGreen).Sprint(status)
	case "conflict":
		return color.New(color.FgRed).Sprint(status)
	case "cancelled":
		return color.New(color.FgHiBlack).Sprint(status)
	}
	return status
}

// priorityLabel colorizes a citation priority.
func priorityLabel(priority string) string {
	switch priority {
	case "critical":
		return color.New(color.FgHiRed).Sprint(priority)
	case "high":
		return color.New(color.FgRed).Sprint(priority)
	case "medium":
		return color.New(color.FgYellow).Sprint(priority)
	case "low":
		return color.New(color.FgHiBlack).Sprint(priority)
	}
	return priority
}
