package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskSendPasswordResetEmail = "task:send_password_reset_email"

type PayloadSendPasswordResetEmail struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ClientURL string `json:"client_url"`
}

func (rt *RedisTaskDistributor) DistributeTaskSendPasswordResetEmail(ctx context.Context, payload *PayloadSendPasswordResetEmail, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	resetEmailTask := asynq.NewTask(TaskSendPasswordResetEmail, jsonPayload, opts...)

	taskInfo, err := rt.client.EnqueueContext(ctx,
		resetEmailTask,
		asynq.Unique(time.Second*5),
		asynq.TaskID(payload.Token),
	)

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

func (processor *RedisTaskProcessor) ProcessTaskSendPasswordResetEmail(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendPasswordResetEmail

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	user, err := processor.store.Users.GetByID(ctx, payload.UserID)

	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", payload.UserID, err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s?userId=%s", payload.ClientURL, payload.Token, user.ID)

	sent, err := processor.emailService.SendPasswordReset(ctx, user, resetURL)

	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if !sent {
		return fmt.Errorf("password reset email was not delivered to %s", user.Email)
	}

	return nil
}
