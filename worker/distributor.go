package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type TaskDistributor interface {
	DistributeTaskSendWelcomeEmail(ctx context.Context, payload *PayloadSendWelcomeEmail, opts ...asynq.Option) error
	DistributeTaskSendVerifyEmail(ctx context.Context, payload *PayloadSendVerifyEmail, opts ...asynq.Option) error
	DistributeTaskSendPasswordResetEmail(ctx context.Context, payload *PayloadSendPasswordResetEmail, opts ...asynq.Option) error
	DistributeTaskSendAdminNewUserEmail(ctx context.Context, payload *PayloadSendAdminNewUserEmail, opts ...asynq.Option) error
	DistributeTaskSendPaymentConfirmationEmail(ctx context.Context, payload *PayloadSendPaymentConfirmationEmail, opts ...asynq.Option) error
	DistributeTaskSendLicenseExpiryEmail(ctx context.Context, payload *PayloadSendLicenseExpiryEmail, opts ...asynq.Option) error
	Close() error
}

type RedisTaskDistributor struct {
	logger asynq.Logger
	client *asynq.Client
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt, logger *zap.SugaredLogger) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		logger: NewLogger(logger),
		client: client,
	}
}

func (rt *RedisTaskDistributor) Close() error {
	return rt.client.Close()
}
