package oracle

import "github.com/pders01/interview/internal/models"

// Response is the oracle's answer to "what next?". A nil Question means the
// interview is complete whatever Completed says; Completed is advisory.
type Response struct {
	Question  *models.Question `json:"question"`
	Completed bool             `json:"completed"`
}

// Done reports whether the response ends the interview.
func (r Response) Done() bool {
	return r.Question == nil
}

// Meta carries the banner shown above the interview.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Description is the optional questionnaire description. Only Meta is used
// by the engine.
type Description struct {
	Meta            Meta             `json:"meta"`
	Sections        []models.Section `json:"sections,omitempty"`
	StartQuestionID string           `json:"startQuestionId,omitempty"`
}

type nextRequest struct {
	Answers models.Answers `json:"answers"`
}
