// Package jobs holds the background jobs the services dispatch.
// RegisterAll must run at boot so workers can decode stored payloads.
package jobs

import (
	"context"
	"fmt"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/mail"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/queue"
)

// RegisterAll wires every job factory into the queue registry.
func RegisterAll() {
	queue.Register("otp.email", func() queue.Job { return &SendEmailOtp{} })
	queue.Register("otp.phone", func() queue.Job { return &SendPhoneOtp{} })
	queue.Register("mail.generic", func() queue.Job { return &SendMail{} })
}

// SendEmailOtp delivers a verification code by email.
type SendEmailOtp struct {
	To   string `json:"to"`
	Code string `json:"code"`
}

func (j *SendEmailOtp) Name() string { return "otp.email" }

func (j *SendEmailOtp) Handle(_ context.Context) error {
	body := fmt.Sprintf(
		"<p>Your Lawlaw Delights verification code is:</p><h2>%s</h2><p>It expires in %d minutes.</p>",
		j.Code, int(config.OtpEmailTTL().Minutes()),
	)
	return mail.To(j.To).
		Subject("Your Lawlaw Delights verification code").
		Body(body).
		Send()
}

// SendPhoneOtp delivers a verification code by SMS. Courier-side SMS
// gateway integration is out of scope, so delivery is logged for the
// operator to relay through whatever gateway fronts the deployment.
type SendPhoneOtp struct {
	To   string `json:"to"`
	Code string `json:"code"`
}

func (j *SendPhoneOtp) Name() string { return "otp.phone" }

func (j *SendPhoneOtp) Handle(_ context.Context) error {
	logger.Info("sms verification code ready for relay", "phone", j.To)
	return nil
}

// SendMail delivers an arbitrary transactional email.
type SendMail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (j *SendMail) Name() string { return "mail.generic" }

func (j *SendMail) Handle(_ context.Context) error {
	return mail.To(j.To).Subject(j.Subject).Body(j.Body).Send()
}
