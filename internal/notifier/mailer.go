package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go-gin-ecommerce/config"
	"go-gin-ecommerce/pkg/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Message 一封 HTML 郵件
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sendFunc 與 smtp.SendMail 相同簽名，測試時替換
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer SMTP 寄信，連續失敗時由 circuit breaker 斷開，避免 worker 持續卡在逾時的連線
type SMTPMailer struct {
	addr    string
	from    string
	auth    smtp.Auth
	send    sendFunc
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewSMTPMailer(config *config.MailConfig) *SMTPMailer {
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}
	return &SMTPMailer{
		addr:    net.JoinHostPort(config.Host, config.Port),
		from:    config.From,
		auth:    auth,
		send:    smtp.SendMail,
		breaker: newBreaker("smtp"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithComponent("mailer").Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.send(m.addr, m.auth, m.from, []string{msg.To}, m.build(msg))
	})
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// LogMailer 未設定 SMTP 時使用，只記錄 log
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger.WithComponent("mailer").Info("mail not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// NewMailer 依設定選擇 mailer
func NewMailer(config *config.MailConfig) Mailer {
	if config.Host == "" {
		return NewLogMailer()
	}
	return NewSMTPMailer(config)
}
