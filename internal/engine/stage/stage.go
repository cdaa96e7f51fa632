// Package stage chains diffs into an ordered pipeline.
//
// Each stage owns one diff. Evaluating a pipeline applies the first
// stage's diff to the base and feeds each stage's output to the next
// stage's base, keeping per-stage diagnostics. Anchors make downstream
// stages stable under upstream edits; entries whose targets disappear
// are skipped and surface in that stage's diagnostics rather than
// failing the evaluation.
package stage

import (
	"errors"
	"sync"

	"atomedit/internal/engine"
	"atomedit/internal/engine/diff"
	"atomedit/internal/engine/structure"
)

// Errors returned by pipeline operations.
var (
	ErrStageNotFound = errors.New("stage not found")
	ErrStageExists   = errors.New("stage name already in use")
	ErrIndexRange    = errors.New("stage index out of range")
)

// Stage is one named diff in a pipeline.
type Stage struct {
	// Name identifies the stage within its pipeline.
	Name string

	// Diff is the overlay this stage applies. The stage owns it.
	Diff *diff.Diff

	// Tolerance overrides the pipeline tolerance when valid (> 0).
	Tolerance engine.Tolerance
}

// StageResult is the outcome of one stage during an evaluation.
type StageResult struct {
	Name        string
	Diagnostics engine.Diagnostics
	Stats       engine.Stats
}

// Pipeline is an ordered list of stages evaluated against a base
// structure. All methods are safe for concurrent use.
type Pipeline struct {
	mu        sync.RWMutex
	stages    []*Stage
	tolerance engine.Tolerance
}

// NewPipeline creates an empty pipeline with the given default tolerance.
// An invalid tolerance falls back to engine.DefaultTolerance.
func NewPipeline(tol engine.Tolerance) *Pipeline {
	if !tol.Valid() {
		tol = engine.DefaultTolerance
	}
	return &Pipeline{tolerance: tol}
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.stages)
}

// Names returns the stage names in evaluation order.
func (p *Pipeline) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Stage returns the stage with the given name.
func (p *Pipeline) Stage(name string) (*Stage, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.stages {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Append adds a stage at the end of the pipeline.
func (p *Pipeline) Append(s *Stage) error {
	return p.Insert(p.Len(), s)
}

// Insert adds a stage at position i, shifting later stages down.
func (p *Pipeline) Insert(i int, s *Stage) error {
	if s == nil || s.Diff == nil {
		return ErrStageNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i > len(p.stages) {
		return ErrIndexRange
	}
	for _, existing := range p.stages {
		if existing.Name == s.Name {
			return ErrStageExists
		}
	}
	p.stages = append(p.stages, nil)
	copy(p.stages[i+1:], p.stages[i:])
	p.stages[i] = s
	return nil
}

// Remove deletes the named stage.
func (p *Pipeline) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.stages {
		if s.Name == name {
			p.stages = append(p.stages[:i], p.stages[i+1:]...)
			return nil
		}
	}
	return ErrStageNotFound
}

// Move relocates the named stage to position i among the remaining
// stages. Downstream diffs are never rewritten; anchors either re-match
// or orphan safely at the next evaluation.
func (p *Pipeline) Move(name string, i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	from := -1
	for j, s := range p.stages {
		if s.Name == name {
			from = j
			break
		}
	}
	if from == -1 {
		return ErrStageNotFound
	}
	if i < 0 || i >= len(p.stages) {
		return ErrIndexRange
	}
	s := p.stages[from]
	p.stages = append(p.stages[:from], p.stages[from+1:]...)
	p.stages = append(p.stages, nil)
	copy(p.stages[i+1:], p.stages[i:])
	p.stages[i] = s
	return nil
}

// Evaluate applies every stage in order, feeding each stage's output to
// the next stage's base. The base structure is not mutated. The final
// structure and per-stage results are returned; evaluation only fails
// on invalid inputs, never on stale diffs.
func (p *Pipeline) Evaluate(base *structure.Structure) (*structure.Structure, []StageResult, error) {
	if base == nil {
		return nil, nil, engine.ErrNilStructure
	}

	p.mu.RLock()
	stages := make([]*Stage, len(p.stages))
	copy(stages, p.stages)
	tol := p.tolerance
	p.mu.RUnlock()

	current := base
	results := make([]StageResult, 0, len(stages))
	for _, s := range stages {
		stageTol := tol
		if s.Tolerance.Valid() {
			stageTol = s.Tolerance
		}
		res, err := engine.ApplyDiff(current, s.Diff, stageTol)
		if err != nil {
			return nil, results, err
		}
		results = append(results, StageResult{
			Name:        s.Name,
			Diagnostics: res.Diagnostics,
			Stats:       res.Stats,
		})
		current = res.Structure
	}
	if current == base {
		// No stages ran; keep Evaluate non-aliasing.
		current = base.Clone()
	}
	return current, results, nil
}
