// Package notifyservice is the fire-and-forget client for the notification
// dispatch collaborator. Delivery failures are logged and never propagated:
// notifications must not block or roll back core state transitions.
package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Kind вид уведомления
type Kind string

const (
	KindReservationCreated   Kind = "reservation_created"
	KindReservationConfirmed Kind = "reservation_confirmed"
	KindReservationRejected  Kind = "reservation_rejected"
	KindReservationCancelled Kind = "reservation_cancelled"
	KindReservationStarted   Kind = "reservation_started"
	KindReservationCompleted Kind = "reservation_completed"
	KindReservationReminder  Kind = "reservation_reminder"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для отправки уведомлений
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type notifyRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Kind        string `json:"kind"`
}

// Notify отправляет уведомление получателю. Ошибки доставки логируются,
// но не возвращаются вызывающему.
func (c *Client) Notify(ctx context.Context, recipientID int64, title, message string, kind Kind) {
	payload, err := json.Marshal(notifyRequest{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Kind:        string(kind),
	})
	if err != nil {
		c.log.Error("Notify: failed to marshal payload for recipient=%d: %v", recipientID, err)
		return
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.log.Error("Notify: failed to create request for recipient=%d: %v", recipientID, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Notify: failed to deliver %s to recipient=%d: %v", kind, recipientID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Warn("Notify: delivery of %s to recipient=%d returned status %d", kind, recipientID, resp.StatusCode)
		return
	}

	c.log.Info("Notify: delivered %s to recipient=%d", kind, recipientID)
}
