package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskSendAdminNewUserEmail = "task:send_admin_new_user_email"

type PayloadSendAdminNewUserEmail struct {
	UserID string `json:"user_id"`
}

func (rt *RedisTaskDistributor) DistributeTaskSendAdminNewUserEmail(ctx context.Context, payload *PayloadSendAdminNewUserEmail, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	adminNewUserTask := asynq.NewTask(TaskSendAdminNewUserEmail, jsonPayload, opts...)

	taskInfo, err := rt.client.EnqueueContext(ctx, adminNewUserTask)

	if err != nil {
		return err
	}

	rt.logger.Info(
		"message", "enqueued task",
		"type", taskInfo.Type,
		"queue", taskInfo.Queue,
		"max_retry", taskInfo.MaxRetry,
	)

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendAdminNewUserEmail(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendAdminNewUserEmail

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	user, err := processor.store.Users.GetByID(ctx, payload.UserID)

	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", payload.UserID, err)
	}

	sent, err := processor.emailService.SendNewUserNotification(ctx, user)

	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if !sent {
		return fmt.Errorf("admin notification was not delivered for user %s", user.ID)
	}

	return nil
}
