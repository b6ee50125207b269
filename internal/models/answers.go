package models

// Answers maps a question id to its answer. A missing key means the
// question has not been asked; Null means it was explicitly skipped.
type Answers map[string]Value

// Get returns the answer for id and whether one was given.
func (a Answers) Get(id string) (Value, bool) {
	v, ok := a[id]
	return v, ok
}

// Cell returns the single-cell rendering of the answer for id, "" when absent.
func (a Answers) Cell(id string) string {
	v, ok := a[id]
	if !ok {
		return ""
	}
	return v.Cell()
}

// With returns a copy of a with id set to v.
func (a Answers) With(id string, v Value) Answers {
	out := a.Clone()
	out[id] = v
	return out
}

// Clone returns an independent copy. Values are immutable, so a shallow copy
// of the map is sufficient.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Entry is one answered question in the ledger.
type Entry struct {
	Question Question `json:"question"`
	Answer   Value    `json:"answer"`
}

// Ledger is the ordered sequence of answered entries. It drives display and
// summary order.
type Ledger []Entry

// Record returns a new ledger where any entry for q.ID is removed and the
// new entry is appended at the end.
func (l Ledger) Record(q Question, v Value) Ledger {
	out := make(Ledger, 0, len(l)+1)
	for _, e := range l {
		if e.Question.ID == q.ID {
			continue
		}
		out = append(out, e)
	}
	out = append(out, Entry{Question: *q.Clone(), Answer: v})
	return out
}

// Clone returns an independent copy of l.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	for i, e := range l {
		out[i] = Entry{Question: *e.Question.Clone(), Answer: e.Answer}
	}
	return out
}

// Answers rebuilds the answer set implied by the ledger.
func (l Ledger) Answers() Answers {
	out := make(Answers, len(l))
	for _, e := range l {
		out[e.Question.ID] = e.Answer
	}
	return out
}
