package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"

	"go-gin-ecommerce/internal/model"
)

// ErrUnknownKind 無法處理的通知類型，重試也沒有用
var ErrUnknownKind = errors.New("unknown notification kind")

type Notifier interface {
	Notify(ctx context.Context, notification *model.Notification) error
}

type NotifierImpl struct {
	mailer Mailer
}

func NewNotifier(mailer Mailer) Notifier {
	return &NotifierImpl{
		mailer: mailer,
	}
}

func (n *NotifierImpl) Notify(ctx context.Context, notification *model.Notification) error {
	msg, err := Render(notification)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}

// Render 將通知轉成郵件內容
func Render(n *model.Notification) (Message, error) {
	name := html.EscapeString(fmt.Sprintf("%s %s", n.FirstName, n.LastName))

	switch n.Kind {
	case model.NotificationProductRemoved:
		return Message{
			To:      n.Email,
			Subject: "BackendApp | Product removed",
			HTML: fmt.Sprintf(`<div><h2>Product removed</h2><h4>Dear %s, your product %s (ID: %s) has been removed from our store.</h4></div>`,
				name, html.EscapeString(n.ProductTitle), html.EscapeString(n.ProductID)),
		}, nil
	case model.NotificationPurchaseCompleted:
		return Message{
			To:      n.Email,
			Subject: "BackendApp | Purchase completed",
			HTML: fmt.Sprintf(`<div><h2>Purchase completed</h2><h4>Dear %s, your purchase for a total of $%.2f has been approved. Your purchase code is: %s</h4></div>`,
				name, n.Amount, html.EscapeString(n.TicketCode)),
		}, nil
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}
}
