package scheduler

import (
	"licensehub/worker"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type AsyncTaskScheduler struct {
	scheduler *asynq.Scheduler
	logger    asynq.Logger
}

func NewAsyncTaskScheduler(redisOpt asynq.RedisClientOpt, zapLogger *zap.SugaredLogger, options *asynq.SchedulerOpts) *AsyncTaskScheduler {
	if options == nil {
		options = &asynq.SchedulerOpts{}
	}

	logger := worker.NewLogger(zapLogger)

	if options.Logger == nil {
		options.Logger = logger
	}

	scheduler := asynq.NewScheduler(
		redisOpt,
		options,
	)

	return &AsyncTaskScheduler{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (c *AsyncTaskScheduler) Run() {
	if err := c.scheduler.Run(); err != nil {
		c.logger.Fatal("failed to start scheduler: ", err)
	}
}

func (c *AsyncTaskScheduler) RegisterTasks() {
	c.scanExpiringLicenses()
}

func (c *AsyncTaskScheduler) Close() {
	c.scheduler.Shutdown()
}
