package planner

import "github.com/pders01/interview/internal/models"

// Planner walks a fixed step table. The cursor is the index of the first
// step not yet considered.
type Planner struct {
	steps  []Step
	cursor int
}

// New returns a planner over a copy of steps.
func New(steps []Step) *Planner {
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return &Planner{steps: cp}
}

// Next scans steps from index from and returns the index of the first step
// eligible against answers. Predicates see answers as they are at call time;
// a predicate that references a later step simply reads it as absent.
func Next(steps []Step, from int, answers models.Answers) (int, bool) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(steps); i++ {
		if Eligible(steps[i], answers) {
			return i, true
		}
	}
	return len(steps), false
}

// Advance returns the next eligible step and moves the cursor past it.
// It returns false once no step remains.
func (p *Planner) Advance(answers models.Answers) (Step, bool) {
	i, ok := Next(p.steps, p.cursor, answers)
	p.cursor = i
	if !ok {
		return Step{}, false
	}
	p.cursor = i + 1
	return p.steps[i], true
}

// Cursor returns the index of the first step not yet considered.
func (p *Planner) Cursor() int {
	return p.cursor
}

// Seek moves the cursor, clamped to the table.
func (p *Planner) Seek(cursor int) {
	p.cursor = max(0, min(cursor, len(p.steps)))
}

// Reset moves the cursor back to the first step.
func (p *Planner) Reset() {
	p.cursor = 0
}

// Steps returns a copy of the step table.
func (p *Planner) Steps() []Step {
	cp := make([]Step, len(p.steps))
	copy(cp, p.steps)
	return cp
}

// Lookup returns the step with id.
func (p *Planner) Lookup(id string) (Step, bool) {
	for _, s := range p.steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// Visit is one step reached while replaying answers.
type Visit struct {
	ID      string        `json:"id"`
	Type    StepType      `json:"type"`
	Section string        `json:"section,omitempty"`
	Answer  *models.Value `json:"answer,omitempty"`
	Pending bool          `json:"pending,omitempty"`
}

// Replay walks steps feeding each question the answer given for its id.
// Answers only become visible to predicates once their step is reached, so
// the result depends on the table and the answers alone. The replay stops
// at the first question without an answer, reported as Pending.
func Replay(steps []Step, given models.Answers) []Visit {
	p := New(steps)
	answers := models.Answers{}
	var visits []Visit

	for {
		step, ok := p.Advance(answers)
		if !ok {
			return visits
		}
		visit := Visit{ID: step.ID, Type: step.Type, Section: step.Section.Title}
		if step.IsInfo() {
			visits = append(visits, visit)
			continue
		}

		v, ok := given[step.ID]
		if !ok {
			visit.Pending = true
			return append(visits, visit)
		}
		answers[step.ID] = v
		visit.Answer = &v
		visits = append(visits, visit)
	}
}
