package scheduler

import (
	"licensehub/internal/store"
	"licensehub/worker"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type AsyncTaskProcessor struct {
	store           *store.Storage
	taskDistributor worker.TaskDistributor
	logger          asynq.Logger
}

func NewAsyncTaskProcessor(store *store.Storage, taskDistributor worker.TaskDistributor,
	zapLogger *zap.SugaredLogger) *AsyncTaskProcessor {
	return &AsyncTaskProcessor{
		store:           store,
		taskDistributor: taskDistributor,
		logger:          worker.NewLogger(zapLogger),
	}
}

func (p *AsyncTaskProcessor) MountTasks(mux *asynq.ServeMux) {
	mux.HandleFunc(CronScanExpiringLicenses, p.HandleScanExpiringLicenses)
}
