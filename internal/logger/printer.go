package logger

import "strings"

// Printer adapts Log to libraries that expect a Printf style writer, such
// as gorm's logger. Log is read on every call so Setup can run later.
type Printer struct {
	component string
}

func NewPrinter(component string) Printer {
	return Printer{component: component}
}

func (p Printer) Printf(format string, args ...interface{}) {
	Log.Warn().
		Str("component", p.component).
		Msgf(strings.ReplaceAll(strings.TrimSpace(format), "\n", " "), args...)
}
