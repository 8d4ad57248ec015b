// Package notification delivers user-facing notices over one or more
// channels: mail, slack, webhook, and database (in-app inbox rows).
//
// A notification declares its channels through Via() and implements the
// matching payload interface for each channel it names.
package notification

import (
	"encoding/json"
	"fmt"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/http"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/mail"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/workerpool"
)

// Channel names accepted from Via().
const (
	ChannelMail     = "mail"
	ChannelSlack    = "slack"
	ChannelWebhook  = "webhook"
	ChannelDatabase = "database"
)

// Notification is implemented by every notifiable event.
type Notification interface {
	Via() []string
}

// Mailable supplies the payload for the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Slackable supplies the payload for the slack channel.
type Slackable interface {
	ToSlack() SlackData
}

// Webhookable supplies the payload for the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

// Databaseable supplies the payload for the database channel.
type Databaseable interface {
	ToDatabase() DatabaseData
}

// MailData is the mail channel payload.
type MailData struct {
	To      []string
	Subject string
	Body    string
}

// SlackData is posted to the configured Slack webhook.
type SlackData struct {
	Text        string            `json:"text"`
	Channel     string            `json:"channel,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment is a colored block within a Slack message.
type SlackAttachment struct {
	Color string `json:"color,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// WebhookData is posted as JSON to an arbitrary URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// DatabaseData becomes an in-app inbox row for a user.
type DatabaseData struct {
	UserID uint
	Type   string
	Data   map[string]interface{}
}

// StoreFunc persists a database-channel notification. It is wired at
// boot to the notification repository so this package stays free of
// model imports.
type StoreFunc func(userID uint, notificationType string, payload []byte) error

var store StoreFunc

// UseStore registers the persistence hook for the database channel.
func UseStore(fn StoreFunc) { store = fn }

var pool = workerpool.New(4, 256)

// Send dispatches the notification over all of its channels and
// returns the first error encountered.
func Send(n Notification) error {
	var firstErr error
	for _, channel := range n.Via() {
		if err := dispatch(channel, n); err != nil {
			logger.Error("notification channel failed", "channel", channel, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// SendAsync dispatches on the package worker pool. Errors are logged,
// not returned.
func SendAsync(n Notification) {
	if err := pool.Submit(func() { Send(n) }); err != nil {
		// Pool saturated; deliver inline rather than drop.
		Send(n)
	}
}

func dispatch(channel string, n Notification) error {
	switch channel {
	case ChannelMail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(m.ToMail())
	case ChannelSlack:
		s, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		return sendSlack(s.ToSlack())
	case ChannelWebhook:
		w, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(w.ToWebhook())
	case ChannelDatabase:
		d, ok := n.(Databaseable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Databaseable", n)
		}
		return sendDatabase(d.ToDatabase())
	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func sendMail(data MailData) error {
	return mail.To(data.To...).
		Subject(data.Subject).
		Body(data.Body).
		Send()
}

func sendSlack(data SlackData) error {
	webhookURL := config.SlackWebhookURL()
	if webhookURL == "" {
		return fmt.Errorf("notification: SLACK_WEBHOOK_URL not configured")
	}
	res, err := http.Post(webhookURL).Body(data).Retry(2).Send()
	if err != nil {
		return err
	}
	return res.Throw()
}

func sendWebhook(data WebhookData) error {
	req := http.Post(data.URL).Body(data.Payload).Retry(2)
	if len(data.Headers) > 0 {
		req.Headers(data.Headers)
	}
	res, err := req.Send()
	if err != nil {
		return err
	}
	return res.Throw()
}

func sendDatabase(data DatabaseData) error {
	if store == nil {
		return fmt.Errorf("notification: database channel store not configured")
	}
	payload, err := json.Marshal(data.Data)
	if err != nil {
		return err
	}
	return store(data.UserID, data.Type, payload)
}
