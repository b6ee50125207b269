package interview

import "github.com/pders01/interview/internal/models"

// Role says who produced a transcript message.
type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

// Message is one transcript entry.
type Message struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Text       string `json:"text"`
	QuestionID string `json:"questionId,omitempty"`
}

// Snapshot captures the full interview state at one point. Snapshots on the
// history stack are never mutated; every accessor hands out copies.
type Snapshot struct {
	Messages  []Message        `json:"messages"`
	Answers   models.Answers   `json:"answers"`
	Ledger    models.Ledger    `json:"ledger"`
	Current   *models.Question `json:"current"`
	Completed bool             `json:"completed"`
}

// Clone returns a snapshot sharing no mutable state with s.
func (s Snapshot) Clone() Snapshot {
	cp := Snapshot{
		Answers:   s.Answers.Clone(),
		Ledger:    s.Ledger.Clone(),
		Current:   s.Current.Clone(),
		Completed: s.Completed,
	}
	if s.Messages != nil {
		cp.Messages = make([]Message, len(s.Messages))
		copy(cp.Messages, s.Messages)
	}
	return cp
}

// withMessage returns a copy of s with m appended to the transcript.
func (s Snapshot) withMessage(m Message) Snapshot {
	cp := s.Clone()
	cp.Messages = append(cp.Messages, m)
	return cp
}
