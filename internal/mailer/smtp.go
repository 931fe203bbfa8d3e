package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

type SMTPClient struct {
	fromEmail       string
	fromName        string
	smtpAddr        string
	smtpSandboxAddr string
	smtpPort        int
	username        string
	password        string
	isSandbox       bool
	sendTimeout     time.Duration
	logger          *zap.SugaredLogger
}

func NewSMTPClient(fromEmail, fromName, smtpAddr, smtpSandboxAddr, username, password string,
	smtpPort int, isSandbox bool, sendTimeout time.Duration, logger *zap.SugaredLogger) *SMTPClient {
	return &SMTPClient{
		fromEmail:       fromEmail,
		fromName:        fromName,
		smtpAddr:        smtpAddr,
		smtpSandboxAddr: smtpSandboxAddr,
		smtpPort:        smtpPort,
		username:        username,
		password:        password,
		isSandbox:       isSandbox,
		sendTimeout:     sendTimeout,
		logger:          logger,
	}
}

func (c *SMTPClient) Send(ctx context.Context, msg *Message) error {
	if msg == nil {
		return fmt.Errorf("nil message received")
	}

	message := gomail.NewMessage()

	message.SetAddressHeader("From", c.fromEmail, c.fromName)

	if msg.ToName != "" {
		message.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	} else {
		message.SetHeader("To", msg.ToEmail)
	}

	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.HTMLBody)

	smtpAddr := c.smtpAddr

	if c.isSandbox {
		smtpAddr = c.smtpSandboxAddr
	}

	dialer := gomail.NewDialer(smtpAddr, c.smtpPort, c.username, c.password)
	dialer.Timeout = c.sendTimeout

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < dialer.Timeout {
			dialer.Timeout = remaining
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err := dialer.DialAndSend(message)

	if err != nil {
		c.logger.Errorw("failed to send email", "email", msg.ToEmail)
		return err
	}

	c.logger.Infow("email sent", "email", msg.ToEmail)
	return nil
}
