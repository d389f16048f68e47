// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package files provides the filesystem capability: whole-file reads and
// writes as effects.
package files

import (
	"context"
	"os"

	"code.hybscloud.com/effect"
)

// Files is the capability interface.
type Files interface {
	ReadBytes(ctx context.Context, name string) ([]byte, error)
	WriteBytes(ctx context.Context, name string, content []byte) error
	AppendBytes(ctx context.Context, name string, content []byte) error
}

// HasFiles is satisfied by environments that carry a Files.
type HasFiles interface {
	Files() Files
}

func with[A any](f func(ctx context.Context, fs Files) (A, error)) effect.Effect[A] {
	return effect.AndThen(effect.Depend[HasFiles](), func(env HasFiles) effect.Effect[A] {
		return effect.BlockingIO(func(ctx context.Context) (A, error) {
			return f(ctx, env.Files())
		})
	})
}

// ReadBytes reads the whole named file.
func ReadBytes(name string) effect.Effect[[]byte] {
	return with(func(ctx context.Context, fs Files) ([]byte, error) {
		return fs.ReadBytes(ctx, name)
	})
}

// Read reads the whole named file as a string.
func Read(name string) effect.Effect[string] {
	return effect.Map(ReadBytes(name), func(b []byte) string {
		return string(b)
	})
}

// WriteBytes replaces the named file's content.
func WriteBytes(name string, content []byte) effect.Effect[struct{}] {
	return with(func(ctx context.Context, fs Files) (struct{}, error) {
		return struct{}{}, fs.WriteBytes(ctx, name, content)
	})
}

// Write replaces the named file's content with a string.
func Write(name, content string) effect.Effect[struct{}] {
	return WriteBytes(name, []byte(content))
}

// AppendBytes appends to the named file, creating it if absent.
func AppendBytes(name string, content []byte) effect.Effect[struct{}] {
	return with(func(ctx context.Context, fs Files) (struct{}, error) {
		return struct{}{}, fs.AppendBytes(ctx, name, content)
	})
}

// Append appends a string to the named file, creating it if absent.
func Append(name, content string) effect.Effect[struct{}] {
	return AppendBytes(name, []byte(content))
}

// OS is the Files implementation over the process's real filesystem.
type OS struct{}

// ReadBytes implements Files.
func (OS) ReadBytes(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteBytes implements Files.
func (OS) WriteBytes(_ context.Context, name string, content []byte) error {
	return os.WriteFile(name, content, 0o644)
}

// AppendBytes implements Files.
func (OS) AppendBytes(_ context.Context, name string, content []byte) error {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
