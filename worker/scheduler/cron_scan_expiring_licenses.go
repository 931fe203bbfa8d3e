package scheduler

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"licensehub/worker"

	"github.com/hibiken/asynq"
)

var CronScanExpiringLicenses = "scan_expiring_licenses"

const expiryReminderWindow = time.Hour * 24 * 30

func (c *AsyncTaskScheduler) scanExpiringLicenses() {
	_, err := c.scheduler.Register("@every 24h", asynq.NewTask(CronScanExpiringLicenses, nil))
	if err != nil {
		log.Fatalf("failed to schedule ScanExpiringLicenses task: %v", err)
	}
}

func (p *AsyncTaskProcessor) HandleScanExpiringLicenses(ctx context.Context, t *asynq.Task) error {
	p.logger.Info("running expiring license scan")

	expiring, err := p.store.Licenses.GetExpiringWithin(ctx, expiryReminderWindow)
	if err != nil {
		return fmt.Errorf("failed to fetch expiring licenses: %w", err)
	}

	for _, license := range expiring {
		daysRemaining := int(math.Ceil(time.Until(*license.LicenseExpiresAt).Hours() / 24))

		err := p.taskDistributor.DistributeTaskSendLicenseExpiryEmail(ctx,
			&worker.PayloadSendLicenseExpiryEmail{
				LicenseID:     license.ID,
				DaysRemaining: daysRemaining,
			},
			asynq.Queue(worker.QueueDefault),
		)

		if err != nil {
			// Log and keep going; the next scan picks this license up
			// again because the reminder timestamp is still unset.
			log.Printf("failed to enqueue expiry email for license %s: %v", license.ID, err)
		}
	}

	return nil
}
