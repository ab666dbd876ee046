package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// statusWriter prints aligned "label: [KIND] detail" lines grouped under
// section headers, colored when the destination is a terminal.
type statusWriter struct {
	out        io.Writer
	color      bool
	labelWidth int
	failures   int
}

func newStatusWriter(out io.Writer) *statusWriter {
	return &statusWriter{out: out, color: shouldColorize(out), labelWidth: 20}
}

func (w *statusWriter) section(title string) {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	fmt.Fprintln(w.out, w.paint(ansiBlue, line))
	fmt.Fprintln(w.out, w.paint(ansiBlue, rule))
}

func (w *statusWriter) line(label string, kind statusKind, detail string) {
	if kind == statusError {
		w.failures++
	}
	fmt.Fprintln(w.out, w.format(label, kind, detail))
}

func (w *statusWriter) blank() {
	fmt.Fprintln(w.out)
}

func (w *statusWriter) format(label string, kind statusKind, detail string) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	status := "[" + style.label + "]"
	if detail != "" {
		status += " " + detail
	}
	return w.paint(style.color, fmt.Sprintf("  %-*s %s", w.labelWidth, label+":", status))
}

func (w *statusWriter) paint(color, text string) string {
	if !w.color || color == "" {
		return text
	}
	return color + text + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
