package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/natefinch/atomic"
)

// StageError represents a task whose data snapshot could not be prepared
type StageError struct {
	Task    string
	Message string
	Cause   error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("staging %s: %s: %v", e.Task, e.Message, e.Cause)
	}
	return fmt.Sprintf("staging %s: %s", e.Task, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *StageError) Kind() types.ErrorKind {
	if errors.Is(e.Cause, fs.ErrNotExist) {
		return types.KindInputNotFound
	}
	return types.KindUnknown
}

// Staged is a task's private snapshot of its data file
type Staged struct {
	Task Task
	// DataPath is the snapshot copy the task reads from
	DataPath string
	dir      string
}

// Stage copies the task's data file into a private directory under root.
// The copy is named <data-stem>_<template-stem><ext>. Callers must Release
// the result.
func Stage(root string, task Task) (*Staged, error) {
	dir, err := os.MkdirTemp(root, task.Name()+"-*")
	if err != nil {
		return nil, &StageError{Task: task.Name(), Message: "failed to create staging directory", Cause: err}
	}

	snapshot := filepath.Join(dir, task.Name()+filepath.Ext(task.DataPath))
	if err := copyFile(task.DataPath, snapshot); err != nil {
		_ = os.RemoveAll(dir)
		return nil, &StageError{Task: task.Name(), Message: "failed to snapshot data file", Cause: err}
	}
	return &Staged{Task: task, DataPath: snapshot, dir: dir}, nil
}

// Release removes the staging directory. It is safe to call more than once.
func (s *Staged) Release() error {
	if s == nil || s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- discovered data file
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	return atomic.WriteFile(dst, in)
}
