package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskSendWelcomeEmail = "task:send_welcome_email"

type PayloadSendWelcomeEmail struct {
	UserID string `json:"user_id"`
}

func (rt *RedisTaskDistributor) DistributeTaskSendWelcomeEmail(ctx context.Context, payload *PayloadSendWelcomeEmail, opts ...asynq.Option) error {
	jsonPayload, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	welcomeEmailTask := asynq.NewTask(TaskSendWelcomeEmail, jsonPayload, opts...)

	taskInfo, err := rt.client.EnqueueContext(ctx, welcomeEmailTask)

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

func (processor *RedisTaskProcessor) ProcessTaskSendWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var payload PayloadSendWelcomeEmail

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	user, err := processor.store.Users.GetByID(ctx, payload.UserID)

	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", payload.UserID, err)
	}

	sent, err := processor.emailService.SendUserWelcome(ctx, user)

	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if !sent {
		return fmt.Errorf("welcome email was not delivered to %s", user.Email)
	}

	return nil
}
