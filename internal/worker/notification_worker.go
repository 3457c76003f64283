package worker

import (
	"context"
	"errors"

	"go-gin-ecommerce/internal/notifier"
	"go-gin-ecommerce/internal/queue"
	"go-gin-ecommerce/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// Start 訂閱通知並在背景處理，ctx 結束時停止
	Start(ctx context.Context) error
	// Done 背景處理結束後關閉
	Done() <-chan struct{}
}

type NotificationWorkerImpl struct {
	notifier notifier.Notifier
	queue    queue.NotificationQueue
	done     chan struct{}
}

func NewNotificationWorker(notifier notifier.Notifier, queue queue.NotificationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		notifier: notifier,
		queue:    queue,
		done:     make(chan struct{}),
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeNotifications(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *NotificationWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *NotificationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	err := w.notifier.Notify(ctx, msg.Data)
	if err == nil {
		msg.Ack()
		return
	}

	log := logger.WithComponent("worker").With(
		zap.String("kind", string(msg.Data.Kind)),
		zap.String("email", msg.Data.Email),
		zap.Error(err),
	)
	if errors.Is(err, notifier.ErrUnknownKind) {
		log.Warn("drop notification")
		msg.Nack(false)
		return
	}
	// 寄送失敗 (SMTP 或 breaker 開啟)，稍後重試
	log.Error("notify failed, will retry")
	msg.Nack(true)
}
