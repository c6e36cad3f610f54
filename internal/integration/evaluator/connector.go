package evaluator

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/provek/interview-sim/internal/config"
	"github.com/provek/interview-sim/internal/entity"
	"github.com/provek/interview-sim/internal/integration/common"
	"github.com/provek/interview-sim/internal/pkg/ratelimit"
	pkghttp "github.com/provek/interview-sim/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EvaluatorConnectorConfig
	connector *pkghttp.Connector
	limiter   *ratelimit.Limiter
	logger    *zap.Logger
}

// NewConnector creates the evaluation service connector. The limiter is the
// process-wide rolling window shared with the other service connectors.
func NewConnector(
	cfg config.EvaluatorConnectorConfig,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		limiter:   limiter,
		logger:    logger,
	}
}

// EvaluateAnswer asks the evaluation service for a verdict on an answer
func (c *Connector) EvaluateAnswer(ctx context.Context, req *entity.EvaluateAnswerRequest) (
	*entity.EvaluateAnswerResponse, error,
) {
	ctxzap.Info(ctx, "evaluating answer via evaluation service",
		zap.String("difficulty", string(req.QuestionDifficulty)),
		zap.Int("answer_length", len(req.Answer)),
	)

	var resp entity.EvaluateAnswerResponse
	err := common.DoWithRetry(ctx, c.limiter, c.config.Retry, func(ctx context.Context) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EvaluateEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Warn(ctx, "answer evaluation request failed", zap.Error(err))
		return nil, common.ClassifyError(err)
	}

	ctxzap.Info(ctx, "answer evaluated successfully")

	return &resp, nil
}
