// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(s string) (int, error) {
	return strconv.Atoi(s)
}

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := New("bad")
	assert.Equal(t, err, Log(err))

	assert.Equal(t, 12, Log1(parse("12")))
	assert.Equal(t, 0, Log1(parse("x")))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("bad")) })
	assert.Equal(t, 3, Must1(parse("3")))
	assert.Panics(t, func() { Must1(parse("three")) })
}

func caller() string {
	return CallerInfo()
}

func TestCallerInfo(t *testing.T) {
	info := caller()
	assert.Contains(t, info, "TestCallerInfo")
	assert.Contains(t, info, "log_test.go:")
}

func TestStdlib(t *testing.T) {
	base := New("base")
	err := Join(base, nil)
	assert.True(t, Is(err, base))
	var ne *strconv.NumError
	_, perr := parse("x")
	assert.True(t, As(perr, &ne))
	assert.Nil(t, Join(nil, nil))
}
