package generator

import (
	"context"
	"fmt"
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
	config    config.GeneratorConnectorConfig
	connector *pkghttp.Connector
	limiter   *ratelimit.Limiter
	logger    *zap.Logger
}

// NewConnector creates the generation service connector. The limiter is the
// process-wide rolling window shared with the other service connectors.
func NewConnector(
	cfg config.GeneratorConnectorConfig,
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

// GenerateQuestion asks the generation service for a fresh interview question
func (c *Connector) GenerateQuestion(ctx context.Context, req *entity.GenerateQuestionRequest) (
	*entity.GenerateQuestionResponse, error,
) {
	ctxzap.Info(ctx, "generating question via generation service",
		zap.String("difficulty", string(req.Difficulty)),
		zap.String("performance", req.PerformanceLevel),
	)

	var resp entity.GenerateQuestionResponse
	err := common.DoWithRetry(ctx, c.limiter, c.config.Retry, func(ctx context.Context) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateQuestionEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Warn(ctx, "question generation request failed", zap.Error(err))
		return nil, common.ClassifyError(err)
	}

	if resp.Text == "" {
		return nil, fmt.Errorf("invalid generation response: empty or missing question text")
	}

	ctxzap.Info(ctx, "question generated successfully", zap.String("category", resp.Category))

	return &resp, nil
}

// GenerateFollowUp asks the generation service for a pressure follow-up to a
// weak answer
func (c *Connector) GenerateFollowUp(ctx context.Context, req *entity.GenerateFollowUpRequest) (
	*entity.GenerateFollowUpResponse, error,
) {
	ctxzap.Info(ctx, "generating follow-up via generation service")

	var resp entity.GenerateFollowUpResponse
	err := common.DoWithRetry(ctx, c.limiter, c.config.Retry, func(ctx context.Context) error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateFollowUpEndpoint, req, &resp)
	})
	if err != nil {
		ctxzap.Warn(ctx, "follow-up generation request failed", zap.Error(err))
		return nil, common.ClassifyError(err)
	}

	if resp.FollowUpQuestion == "" {
		return nil, fmt.Errorf("invalid follow-up response: empty or missing question text")
	}

	ctxzap.Info(ctx, "follow-up generated successfully", zap.String("focus_area", resp.FocusArea))

	return &resp, nil
}
