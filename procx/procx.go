// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package procx provides the subprocess capability: command execution as
// I/O-dispatched effects.
package procx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"code.hybscloud.com/effect"
)

// Output is a finished command's captured result. A non-zero exit is data,
// not a failure; only start errors and cancellation travel the error
// channel.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner is the capability interface.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// HasRunner is satisfied by environments that carry a Runner.
type HasRunner interface {
	Runner() Runner
}

// Run executes a command through the environment's runner. The command is
// bound to the run's cancellation context: losing a race or hitting a
// timeout kills it.
func Run(name string, args ...string) effect.Effect[Output] {
	return effect.AndThen(effect.Depend[HasRunner](), func(env HasRunner) effect.Effect[Output] {
		return effect.BlockingIO(func(ctx context.Context) (Output, error) {
			return env.Runner().Run(ctx, name, args...)
		})
	})
}

// OS runs commands as real subprocesses.
type OS struct{}

// Run implements Runner.
func (OS) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return Output{}, err
	}
	return out, nil
}

// Env is a ready-made single-capability environment.
type Env struct {
	R Runner
}

// Runner implements HasRunner.
func (e Env) Runner() Runner { return e.R }
