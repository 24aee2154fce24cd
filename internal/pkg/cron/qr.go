package cron

import (
	"context"
	"log/slog"
	"time"
)

// QRCodeRotator is the part of the employee service the rotation job drives.
type QRCodeRotator interface {
	RotateQRCodes(ctx context.Context) (int, error)
}

type QRCodeJobs struct {
	rotator  QRCodeRotator
	interval time.Duration
}

func NewQRCodeJobs(rotator QRCodeRotator, interval time.Duration) *QRCodeJobs {
	return &QRCodeJobs{rotator: rotator, interval: interval}
}

func (j *QRCodeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("rotate_qr_codes", j.interval, j.RotateQRCodes)
}

func (j *QRCodeJobs) RotateQRCodes(ctx context.Context) error {
	n, err := j.rotator.RotateQRCodes(ctx)
	if err != nil {
		return err
	}
	slog.Info("Cron: QR codes rotated", "count", n)
	return nil
}
