package worker

import (
	"context"

	"licensehub/internal/email"
	"licensehub/internal/store"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type CronTaskRunner interface {
	MountTasks(*asynq.ServeMux)
}

type TaskProcessor interface {
	Start() error
	Close()
	ProcessTaskSendWelcomeEmail(ctx context.Context, task *asynq.Task) error
	ProcessTaskSendVerifyEmail(ctx context.Context, task *asynq.Task) error
	ProcessTaskSendPasswordResetEmail(ctx context.Context, task *asynq.Task) error
	ProcessTaskSendAdminNewUserEmail(ctx context.Context, task *asynq.Task) error
	ProcessTaskSendPaymentConfirmationEmail(ctx context.Context, task *asynq.Task) error
	ProcessTaskSendLicenseExpiryEmail(ctx context.Context, task *asynq.Task) error
}

type RedisTaskProcessor struct {
	server         *asynq.Server
	store          *store.Storage
	emailService   *email.Service
	logger         asynq.Logger
	cronTaskRunner CronTaskRunner
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, cronTaskRunner CronTaskRunner,
	store *store.Storage, emailService *email.Service, zapLogger *zap.SugaredLogger) TaskProcessor {
	logger := NewLogger(zapLogger)
	server := asynq.NewServer(redisOpt, asynq.Config{
		Queues: map[string]int{
			QueueCritical: 10,
			QueueDefault:  5,
		},

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error(
				"message", "failed to process task", "type",
				task.Type(), "payload", task.Payload(),
				"err", err,
			)
		}),
		Concurrency: 10,
		Logger:      logger,
	})

	return &RedisTaskProcessor{
		server:         server,
		store:          store,
		emailService:   emailService,
		cronTaskRunner: cronTaskRunner,
		logger:         logger,
	}
}

func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskSendWelcomeEmail, processor.ProcessTaskSendWelcomeEmail)
	mux.HandleFunc(TaskSendVerifyEmail, processor.ProcessTaskSendVerifyEmail)
	mux.HandleFunc(TaskSendPasswordResetEmail, processor.ProcessTaskSendPasswordResetEmail)
	mux.HandleFunc(TaskSendAdminNewUserEmail, processor.ProcessTaskSendAdminNewUserEmail)
	mux.HandleFunc(TaskSendPaymentConfirmationEmail, processor.ProcessTaskSendPaymentConfirmationEmail)
	mux.HandleFunc(TaskSendLicenseExpiryEmail, processor.ProcessTaskSendLicenseExpiryEmail)

	if processor.cronTaskRunner != nil {
		processor.cronTaskRunner.MountTasks(mux)
	}

	return processor.server.Start(mux)
}

func (processor *RedisTaskProcessor) Close() {
	processor.server.Shutdown()
}
