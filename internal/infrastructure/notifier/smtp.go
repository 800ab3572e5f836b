package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"job-board/internal/config"
	"job-board/internal/domain/notification"
	"job-board/internal/logger"

	"go.uber.org/zap"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier renders the message template and delivers it as an HTML email.
type SMTPNotifier struct {
	config *config.SMTPConfig
	send   sendFunc
	now    func() time.Time
}

func NewSMTPNotifier(cfg *config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		config: cfg,
		send:   smtp.SendMail,
		now:    time.Now,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return fmt.Errorf("invalid header value in message to %q", msg.To)
	}

	body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	var message bytes.Buffer
	writeHeader(&message, "From", n.config.From)
	writeHeader(&message, "To", msg.To)
	writeHeader(&message, "Subject", msg.Subject)
	writeHeader(&message, "MIME-Version", "1.0")
	writeHeader(&message, "Content-Type", "text/html; charset=UTF-8")
	writeHeader(&message, "Date", n.now().Format(time.RFC1123Z))
	message.WriteString("\r\n")
	message.WriteString(body)

	var auth smtp.Auth
	if n.config.User != "" {
		auth = smtp.PlainAuth("", n.config.User, n.config.Password, n.config.Host)
	}

	addr := net.JoinHostPort(n.config.Host, strconv.Itoa(n.config.Port))
	if err := n.send(addr, auth, n.config.From, []string{msg.To}, message.Bytes()); err != nil {
		return fmt.Errorf("failed to send %s email: %w", msg.Template, err)
	}

	logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("template", msg.Template),
		zap.String("event", "email_sent"),
	)
	return nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
