package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/cvbuilder/internal/pipeline"
	"github.com/jonathan/cvbuilder/internal/schemas"
)

// Task is one (data source, template) pairing
type Task struct {
	Index        int
	DataPath     string
	TemplatePath string

	// name is assigned by NewPlan and is unique within the plan
	name string
}

// Name identifies the pairing as <data-stem>_<template-stem>. Within a
// plan, stems shared by several files carry their extension and any
// remaining clash gets a numeric suffix.
func (t Task) Name() string {
	if t.name != "" {
		return t.name
	}
	return schemas.Stem(t.DataPath) + "_" + schemas.Stem(t.TemplatePath)
}

// BaseName is the output base name for the pairing
func (t Task) BaseName() string {
	return t.Name() + pipeline.OutputSuffix
}

// Plan is the ordered set of tasks for a run
type Plan struct {
	Templates []string
	DataFiles []string
	Tasks     []Task
}

// NewPlan pairs every data file with every template. Data files form the
// outer loop, so all outputs for one data file are produced together.
// No two tasks share an output base name.
func NewPlan(dataFiles, templates []string) *Plan {
	p := &Plan{
		Templates: templates,
		DataFiles: dataFiles,
		Tasks:     make([]Task, 0, len(dataFiles)*len(templates)),
	}

	dataLabels := labels(dataFiles)
	templateLabels := labels(templates)
	taken := make(map[string]bool, cap(p.Tasks))
	for i, d := range dataFiles {
		for j, t := range templates {
			name := unique(dataLabels[i]+"_"+templateLabels[j], taken)
			p.Tasks = append(p.Tasks, Task{Index: len(p.Tasks), DataPath: d, TemplatePath: t, name: name})
		}
	}
	return p
}

// labels returns the stem of each path, extended with the file extension
// when another path has the same stem. Stems are compared case-insensitively
// since output files may land on a case-insensitive file system.
func labels(paths []string) []string {
	count := make(map[string]int, len(paths))
	for _, p := range paths {
		count[strings.ToLower(schemas.Stem(p))]++
	}

	out := make([]string, len(paths))
	for i, p := range paths {
		stem := schemas.Stem(p)
		if count[strings.ToLower(stem)] > 1 {
			if ext := strings.TrimPrefix(filepath.Ext(p), "."); ext != "" {
				stem += "-" + strings.ToLower(ext)
			}
		}
		out[i] = stem
	}
	return out
}

// unique returns name, or name with the lowest free numeric suffix, and
// marks the result as taken.
func unique(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}
