package session

import (
	"context"

	"github.com/provek/interview-sim/internal/entity"
)

// InterviewManager drives the interview state machine for the HTTP layer.
type InterviewManager interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	StartInterview(ctx context.Context, id, candidateName, role string, durationMinutes int) (*entity.Session, error)
	SubmitAnswer(ctx context.Context, id, questionID, answer string) (*entity.Session, error)
	ContinueInterview(ctx context.Context, id string) (*entity.Session, error)
	RestartInterview(ctx context.Context, id string) (*entity.Session, error)
}
