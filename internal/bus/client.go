// Package bus wraps the NATS connection used for analysis job intake and
// report event publication.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectAnalysisRequested carries batch analysis jobs into the processor.
const SubjectAnalysisRequested = "veritas.analysis.requested"

// SubjectReportGenerated is emitted once per synthesized report.
const SubjectReportGenerated = "veritas.report.generated"

// AnalysisJob is the payload of SubjectAnalysisRequested.
type AnalysisJob struct {
	JobID string   `json:"job_id"`
	Paths []string `json:"paths"`
}

// ReportGenerated is the payload of SubjectReportGenerated.
type ReportGenerated struct {
	JobID    string    `json:"job_id"`
	ReportID string    `json:"report_id"`
	FilePath string    `json:"file_path"`
	Kind     string    `json:"kind"`
	Degraded bool      `json:"degraded"`
	At       time.Time `json:"at"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
