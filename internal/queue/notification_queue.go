package queue

import (
	"context"

	"go-gin-ecommerce/internal/model"
)

type Delivery struct {
	Data *model.Notification
	Ack  func()
	Nack func(requeue bool)
}

// NotificationQueue 通知寄送與請求處理解耦，發佈失敗不影響主流程
type NotificationQueue interface {
	PublishNotification(ctx context.Context, notification *model.Notification) error
	SubscribeNotifications(ctx context.Context) (<-chan Delivery, error)
}

// MemoryNotificationQueueImpl 單一程序內的 channel 版本，未設定 Redis 或測試時使用
type MemoryNotificationQueueImpl struct {
	ch chan *model.Notification
}

func NewMemoryNotificationQueue(bufferSize int) NotificationQueue {
	return &MemoryNotificationQueueImpl{
		ch: make(chan *model.Notification, bufferSize),
	}
}

func (q *MemoryNotificationQueueImpl) PublishNotification(ctx context.Context, notification *model.Notification) error {
	select {
	case q.ch <- notification:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryNotificationQueueImpl) SubscribeNotifications(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: n,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						select {
						case q.ch <- n:
						default:
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
