// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/muesli/termenv"
)

// Printer prints user facing messages at a level, colored
// by level when the output is a color terminal. Messages below
// [UserLevel] are not printed.
type Printer struct {
	out *termenv.Output
}

// NewPrinter returns a new [Printer] writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: termenv.NewOutput(w)}
}

// LevelColor returns the given string colored for the given level.
func (p *Printer) LevelColor(level slog.Level, str string) string {
	var c termenv.Color
	switch {
	case level >= slog.LevelError:
		c = termenv.ANSIRed
	case level >= slog.LevelWarn:
		c = termenv.ANSIYellow
	case level >= slog.LevelInfo:
		return str
	default:
		c = termenv.ANSIBrightBlack
	}
	return p.out.String(str).Foreground(c).String()
}

// Success returns the given string colored as a success message.
func (p *Printer) Success(str string) string {
	return p.out.String(str).Foreground(termenv.ANSIGreen).String()
}

// Bold returns the given string in bold.
func (p *Printer) Bold(str string) string {
	return p.out.String(str).Bold().String()
}

// Println prints the given values at the given level, followed by a newline.
// It returns whether anything was printed.
func (p *Printer) Println(level slog.Level, a ...any) bool {
	if level < UserLevel {
		return false
	}
	fmt.Fprintln(p.out, p.LevelColor(level, fmt.Sprint(a...)))
	return true
}

// Printf prints the given formatted message at the given level.
// It returns whether anything was printed.
func (p *Printer) Printf(level slog.Level, format string, a ...any) bool {
	if level < UserLevel {
		return false
	}
	fmt.Fprint(p.out, p.LevelColor(level, fmt.Sprintf(format, a...)))
	return true
}
