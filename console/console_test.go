// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/effect"
	"code.hybscloud.com/effect/console"
)

type env struct {
	c console.Console
}

func (e env) Console() console.Console { return e.c }

func TestPrintLine(t *testing.T) {
	var out bytes.Buffer
	e := env{c: console.NewStd(strings.NewReader(""), &out)}

	_, err := effect.Run(console.PrintLine("hello"), e)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestGetLine(t *testing.T) {
	e := env{c: console.NewStd(strings.NewReader("first\nsecond\n"), &bytes.Buffer{})}

	pair := effect.AndThen(console.GetLine(), func(a string) effect.Effect[[2]string] {
		return effect.Map(console.GetLine(), func(b string) [2]string {
			return [2]string{a, b}
		})
	})
	got, err := effect.Run(pair, e)
	require.NoError(t, err)
	assert.Equal(t, [2]string{"first", "second"}, got)
}

func TestGetLineWithoutTrailingNewline(t *testing.T) {
	e := env{c: console.NewStd(strings.NewReader("partial"), &bytes.Buffer{})}

	got, err := effect.Run(console.GetLine(), e)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestEchoPipeline(t *testing.T) {
	var out bytes.Buffer
	e := env{c: console.NewStd(strings.NewReader("ping\n"), &out)}

	echo := effect.AndThen(console.GetLine(), func(line string) effect.Effect[struct{}] {
		return console.PrintLine("echo: " + line)
	})
	_, err := effect.Run(echo, e)
	require.NoError(t, err)
	assert.Equal(t, "echo: ping\n", out.String())
}
