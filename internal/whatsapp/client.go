// Package whatsapp wraps outbound calls to the Meta Cloud API. Every send
// attempt, successful or not, produces exactly one delivery log entry.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agendai_backend/platform/config"
	"agendai_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const errNotConfigured = "whatsapp not configured"

// Result is the outcome of one send attempt.
type Result struct {
	Success   bool
	MessageID string
	Error     string
}

// LogEntry is an immutable audit record of one send attempt or inbound event.
type LogEntry struct {
	UserID      *uuid.UUID
	Kind        string
	Destination string
	Body        string
	Payload     map[string]interface{}
	Success     bool
	Error       string
}

// Store persists delivery log entries.
type Store interface {
	Insert(ctx context.Context, entry LogEntry) error
}

// Client sends text and template messages through the Cloud API.
// A client with missing credentials degrades to non-throwing failure results,
// so calling code is uniform whether or not the channel is provisioned.
type Client struct {
	baseURL      string
	phoneID      string
	token        string
	templateLang string
	httpClient   *http.Client
	limiter      *rate.Limiter
	store        Store
	log          *logger.Logger
}

// NewClient creates a WhatsApp client. store must not be nil.
func NewClient(cfg config.WhatsAppConfig, store Store, log *logger.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.GetWhatsAppGraphBaseURL(), "/"),
		phoneID:      cfg.GetWhatsAppPhoneID(),
		token:        cfg.GetWhatsAppAPIToken(),
		templateLang: cfg.GetWhatsAppTemplateLanguage(),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(cfg.GetWhatsAppSendRate()), 1),
		store:        store,
		log:          log,
	}
}

func (c *Client) configured() bool {
	return c.phoneID != "" && c.token != ""
}

// SendTemplate sends a pre-approved template message with positional text
// parameters. Templates deliver outside the provider's 24h recency window.
func (c *Client) SendTemplate(ctx context.Context, to, templateName string, params []string, userID *uuid.UUID) Result {
	if !c.configured() {
		return Result{Success: false, Error: errNotConfigured}
	}

	destination := strings.TrimPrefix(to, "+")
	payload := newTemplatePayload(destination, templateName, c.templateLang, params)
	return c.execute(ctx, to, "template:"+templateName, payload, userID)
}

// SendText sends a free-form text message. The provider only delivers these
// inside its recency window with the destination; a violation surfaces as a
// provider error in the result.
func (c *Client) SendText(ctx context.Context, to, body string, userID *uuid.UUID) Result {
	if !c.configured() {
		return Result{Success: false, Error: errNotConfigured}
	}

	destination := strings.TrimPrefix(to, "+")
	payload := newTextPayload(destination, body)
	return c.execute(ctx, to, "text", payload, userID)
}

// execute performs the provider call and writes the audit entry before
// returning. No retries here; retry policy belongs to the dispatcher's
// re-invocation model.
func (c *Client) execute(ctx context.Context, destination, kind string, payload interface{}, userID *uuid.UUID) Result {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		result := Result{Success: false, Error: fmt.Sprintf("marshal payload: %v", err)}
		c.audit(ctx, destination, kind, payload, nil, userID, result)
		return result
	}

	if err := c.limiter.Wait(ctx); err != nil {
		result := Result{Success: false, Error: err.Error()}
		c.audit(ctx, destination, kind, payload, nil, userID, result)
		return result
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		result := Result{Success: false, Error: err.Error()}
		c.audit(ctx, destination, kind, payload, nil, userID, result)
		return result
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result := Result{Success: false, Error: err.Error()}
		c.audit(ctx, destination, kind, payload, nil, userID, result)
		return result
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, _ := io.ReadAll(resp.Body)
	var graph graphResponse
	_ = json.Unmarshal(data, &graph)

	var response interface{}
	_ = json.Unmarshal(data, &response)

	if resp.StatusCode >= http.StatusMultipleChoices {
		errMsg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if graph.Error != nil && graph.Error.Message != "" {
			errMsg = graph.Error.Message
		}
		result := Result{Success: false, Error: errMsg}
		c.audit(ctx, destination, kind, payload, response, userID, result)
		return result
	}

	result := Result{Success: true}
	if len(graph.Messages) > 0 {
		result.MessageID = graph.Messages[0].ID
	}
	c.audit(ctx, destination, kind, payload, response, userID, result)
	return result
}

// audit writes the delivery log entry. A failed write must not mask the send
// outcome, so it is only logged.
func (c *Client) audit(ctx context.Context, destination, kind string, request, response interface{}, userID *uuid.UUID, result Result) {
	entry := LogEntry{
		UserID:      userID,
		Kind:        kind,
		Destination: destination,
		Body:        summarizeBody(request),
		Payload: map[string]interface{}{
			"request": request,
		},
		Success: result.Success,
		Error:   result.Error,
	}
	if response != nil {
		entry.Payload["response"] = response
	}

	if err := c.store.Insert(ctx, entry); err != nil {
		c.log.Error("delivery log write failed", "error", err, "kind", kind)
	}

	c.log.DeliveryAttempt(kind, destination, result.Success, result.Error)
}

func summarizeBody(request interface{}) string {
	switch p := request.(type) {
	case textPayload:
		return p.Text.Body
	case templatePayload:
		return "template:" + p.Template.Name
	default:
		return ""
	}
}
