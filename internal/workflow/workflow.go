// Package workflow sequences a frame build through a fixed, ordered list
// of named stages (SPEC_FULL.md §4.4: build-layout-tree → compute-layout
// → generate-draw-list). The teacher's original engine staged an
// arbitrary dependency graph and fanned independent stages out across
// goroutines level by level; a frame build is always the same three-long
// chain with no independent stages to parallelise, so this is a plain
// linear runner instead: stages execute in the order they were added,
// each one's Output becoming the next one's Input.
package workflow

import (
	"context"
	"fmt"
)

// Stage is one named step of a pipeline.
type Stage struct {
	ID      string
	Name    string
	Execute StageFunc
}

// StageFunc is the function executed by a stage.
type StageFunc func(context.Context, *StageContext) error

// StageContext carries one stage's input/output across the call.
type StageContext struct {
	Stage  *Stage
	Input  interface{}
	Output interface{}
}

// Engine runs a fixed sequence of stages in the order they were added.
type Engine struct {
	name    string
	stages  []*Stage
	results map[string]interface{}
}

// NewEngine creates an engine identified by name, used in error messages.
func NewEngine(name string) *Engine {
	return &Engine{name: name, results: make(map[string]interface{})}
}

// AddStage appends a stage to the run order.
func (e *Engine) AddStage(stage *Stage) error {
	for _, s := range e.stages {
		if s.ID == stage.ID {
			return fmt.Errorf("workflow %s: stage %s already exists", e.name, stage.ID)
		}
	}
	e.stages = append(e.stages, stage)
	return nil
}

// Execute runs every stage in insertion order, threading each stage's
// Output into the next stage's Input, and records each stage's Output
// for later retrieval via GetResult.
func (e *Engine) Execute(ctx context.Context, input interface{}) error {
	current := input
	for _, stage := range e.stages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sc := &StageContext{Stage: stage, Input: current}
		if err := stage.Execute(ctx, sc); err != nil {
			return fmt.Errorf("workflow %s: stage %s failed: %w", e.name, stage.ID, err)
		}

		e.results[stage.ID] = sc.Output
		current = sc.Output
	}
	return nil
}

// GetResult returns the Output a stage produced on the most recent
// Execute call.
func (e *Engine) GetResult(stageID string) (interface{}, bool) {
	v, ok := e.results[stageID]
	return v, ok
}
