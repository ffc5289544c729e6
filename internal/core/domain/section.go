package domain

import "errors"

// Section is a top-level area of the admin dashboard.
type Section string

const (
	SectionOverview  Section = "overview"
	SectionUsers     Section = "users"
	SectionPremium   Section = "premium"
	SectionAnalytics Section = "analytics"
	SectionContent   Section = "content"
	SectionReports   Section = "reports"
	SectionSystem    Section = "system"
	SectionBackups   Section = "backups"
	SectionLogs      Section = "logs"
)

var ErrUnknownSection = errors.New("unknown section")

var sectionTitles = map[Section]string{
	SectionOverview:  "Dashboard Overview",
	SectionUsers:     "User Management",
	SectionPremium:   "Premium Management",
	SectionAnalytics: "Analytics Dashboard",
	SectionContent:   "Content Management",
	SectionReports:   "Reports & Analytics",
	SectionSystem:    "System Settings",
	SectionBackups:   "Backup Management",
	SectionLogs:      "System Logs",
}

// Alt+digit shortcuts, keyed by key code.
var shortcuts = map[string]Section{
	"Digit1": SectionOverview,
	"Digit2": SectionUsers,
	"Digit3": SectionPremium,
	"Digit4": SectionAnalytics,
	"Digit5": SectionContent,
	"Digit6": SectionReports,
	"Digit7": SectionSystem,
	"Digit8": SectionBackups,
	"Digit9": SectionLogs,
}

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	s := Section(name)
	if _, ok := sectionTitles[s]; !ok {
		return "", ErrUnknownSection
	}
	return s, nil
}

// Title returns the page title shown for the section.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return "Dashboard"
}

// SectionForShortcut resolves a keyboard shortcut. Only Alt without Ctrl or
// Shift is bound.
func SectionForShortcut(code string, alt, ctrl, shift bool) (Section, bool) {
	if !alt || ctrl || shift {
		return "", false
	}
	s, ok := shortcuts[code]
	return s, ok
}
