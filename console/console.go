// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package console provides the console capability: line-oriented terminal
// I/O as effects.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"code.hybscloud.com/effect"
)

// Console is the capability interface.
type Console interface {
	PrintLine(ctx context.Context, line string) error
	GetLine(ctx context.Context) (string, error)
}

// HasConsole is satisfied by environments that carry a Console.
type HasConsole interface {
	Console() Console
}

// PrintLine writes a line to the environment's console.
func PrintLine(line string) effect.Effect[struct{}] {
	return effect.AndThen(effect.Depend[HasConsole](), func(env HasConsole) effect.Effect[struct{}] {
		return effect.BlockingIO(func(ctx context.Context) (struct{}, error) {
			return struct{}{}, env.Console().PrintLine(ctx, line)
		})
	})
}

// GetLine reads one line from the environment's console, without the
// trailing newline.
func GetLine() effect.Effect[string] {
	return effect.AndThen(effect.Depend[HasConsole](), func(env HasConsole) effect.Effect[string] {
		return effect.BlockingIO(func(ctx context.Context) (string, error) {
			return env.Console().GetLine(ctx)
		})
	})
}

// Std is a Console over an arbitrary reader/writer pair. The reader is
// buffered internally, so all line reads must go through the same Std.
type Std struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewStd creates a console over in and out.
func NewStd(in io.Reader, out io.Writer) *Std {
	return &Std{in: bufio.NewReader(in), out: out}
}

// System returns the process's standard input and output as a console.
func System() *Std {
	return NewStd(os.Stdin, os.Stdout)
}

// PrintLine implements Console.
func (s *Std) PrintLine(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, line)
	return err
}

// GetLine implements Console.
func (s *Std) GetLine(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}
