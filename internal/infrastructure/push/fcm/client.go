package fcm

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/melechlapson/CastNCatch/internal/platform/logging"
	"github.com/melechlapson/CastNCatch/internal/platform/resilience"
)

const defaultBaseURL = "https://fcm.googleapis.com"

var errFCMTransient = crerr.New("fcm transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	ServerKey      string
	MaxRetries     int
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client delivers push notifications through the FCM legacy HTTP endpoint.
// It satisfies the usecase PushSender interface; delivery failures are
// surfaced to the caller, which treats pushes as best effort.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	serverKey      string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		serverKey:      strings.TrimSpace(cfg.ServerKey),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type sendRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    sendNotification  `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type sendNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type sendResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (c *Client) Send(ctx context.Context, tokens []string, category, message string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fcm circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("fcm is temporarily unavailable: %w", err)
		}
	}

	payload := sendRequest{
		RegistrationIDs: tokens,
		Notification: sendNotification{
			Title: category,
			Body:  message,
		},
		Data: data,
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal fcm payload")
	}

	sendURL := c.baseURL + "/fcm/send"
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildCurlPreview(sendURL, bodyText)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("fcm.send_url", sendURL),
			attribute.Int("fcm.token_count", len(tokens)),
			attribute.String("fcm.category", category),
			attribute.String("fcm.request_curl_preview", curlPreview),
		)
	}

	callErr := c.executeSend(ctx, sendURL, body)
	c.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	c.logger.InfoContext(ctx, "fcm push delivered", "category", category, "token_count", len(tokens))
	return nil
}

func (c *Client) executeSend(ctx context.Context, sendURL string, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(string(body)))
		if err != nil {
			return crerr.Wrap(err, "create fcm request")
		}
		req.Header.Set("Authorization", "key="+c.serverKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send fcm request: %v", errFCMTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read fcm response: %v", errFCMTransient, readErr)
			case resp.StatusCode/100 == 2:
				var decoded sendResponse
				if err := sonic.Unmarshal(raw, &decoded); err == nil && decoded.Failure > 0 {
					c.logger.WarnContext(ctx, "fcm partial delivery", "success", decoded.Success, "failure", decoded.Failure)
				}
				return nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: fcm status=%d body=%s", errFCMTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
			default:
				return fmt.Errorf("fcm status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("fcm request failed")
	}
	return lastErr
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errFCMTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func buildCurlPreview(sendURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(sendURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: key=***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
