package planner

import (
	"context"

	"go.uber.org/zap"

	"github.com/pders01/interview/internal/errors"
	"github.com/pders01/interview/internal/logging"
	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/oracle"
)

// LocalOracle answers "what next?" from a step table so the dynamic engine
// can run without a remote service. The next question is the first eligible
// question step whose id has no answer yet.
type LocalOracle struct {
	steps  []Step
	meta   oracle.Meta
	logger *zap.Logger
}

// NewLocalOracle returns an oracle over a copy of steps.
func NewLocalOracle(steps []Step, meta oracle.Meta, logger *zap.Logger) *LocalOracle {
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return &LocalOracle{steps: cp, meta: meta, logger: logging.OrNop(logger)}
}

// Next implements the oracle contract.
func (o *LocalOracle) Next(ctx context.Context, answers models.Answers) (oracle.Response, error) {
	if err := ctx.Err(); err != nil {
		return oracle.Response{}, errors.Cancelled(err, "local oracle cancelled")
	}

	for _, s := range o.steps {
		if s.IsInfo() {
			continue
		}
		if _, answered := answers[s.ID]; answered {
			continue
		}
		if !Eligible(s, answers) {
			continue
		}
		q := s.Question()
		if err := q.Check(); err != nil {
			return oracle.Response{}, errors.Malformed(err, "failed to build question from step")
		}
		o.logger.Debug("local oracle selected question",
			zap.String(logging.FieldQuestionID, q.ID),
			zap.Int(logging.FieldAnswers, len(answers)))
		return oracle.Response{Question: &q}, nil
	}

	o.logger.Debug("local oracle completed", zap.Int(logging.FieldAnswers, len(answers)))
	return oracle.Response{Completed: true}, nil
}

// Describe returns the banner and the distinct sections of the table in
// order.
func (o *LocalOracle) Describe(ctx context.Context) (oracle.Description, error) {
	if err := ctx.Err(); err != nil {
		return oracle.Description{}, errors.Cancelled(err, "local oracle cancelled")
	}

	desc := oracle.Description{Meta: o.meta}
	seen := map[string]bool{}
	for _, s := range o.steps {
		if s.Section.ID != "" && !seen[s.Section.ID] {
			seen[s.Section.ID] = true
			desc.Sections = append(desc.Sections, s.Section)
		}
		if desc.StartQuestionID == "" && !s.IsInfo() && s.ShouldAsk == nil {
			desc.StartQuestionID = s.ID
		}
	}
	return desc, nil
}
