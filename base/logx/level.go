// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the user verbosity level for logging
// and printing, and a colored printer for terminal output.
package logx

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically
// be set through [SetLevel] to the end user's preference. The default user
// verbosity level is [slog.LevelWarn].
var UserLevel = slog.LevelWarn

// LevelFromFlags returns the level selected by the -vv, -v and -q
// command line flags, which give debug, info and error messages
// respectively. The most verbose flag wins, and with none of
// them the level is [slog.LevelWarn].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel returns the level with the given name
// (debug, info, warn or error, in any case).
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return UserLevel, fmt.Errorf("logx.ParseLevel: %w", err)
	}
	return l, nil
}

// SetLevel sets [UserLevel] from the given level name and
// installs the default logger for it. An empty name keeps
// the current level.
func SetLevel(name string) error {
	if name != "" {
		l, err := ParseLevel(name)
		if err != nil {
			return err
		}
		UserLevel = l
	}
	SetDefaultLogger()
	return nil
}

// SetDefaultLogger sets the default [slog] logger to a text
// logger on stderr that only shows messages at [UserLevel] or above.
func SetDefaultLogger() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: UserLevel})))
}
