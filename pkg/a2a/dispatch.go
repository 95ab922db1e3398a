package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const DefaultDispatchTimeout = 10 * time.Second

// Dispatcher performs the single outbound hop to a peer's /a2a endpoint.
type Dispatcher interface {
	Forward(ctx context.Context, targetURL string, env MessageEnvelope) (MessageEnvelope, error)
}

// HTTPDispatcher posts the envelope to the peer exactly once. No retries:
// resilience belongs to callers that want it. Every transport failure is
// translated into a RoutingFailure so the router never sees a raw error.
type HTTPDispatcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewHTTPDispatcher(timeout time.Duration) *HTTPDispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &HTTPDispatcher{
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (d *HTTPDispatcher) Forward(ctx context.Context, targetURL string, env MessageEnvelope) (MessageEnvelope, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return MessageEnvelope{}, &RoutingFailure{Reason: ReasonBadBody, Target: targetURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return MessageEnvelope{}, &RoutingFailure{Reason: ReasonUnreachable, Target: targetURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return MessageEnvelope{}, &RoutingFailure{Reason: classifyTransport(err), Target: targetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return MessageEnvelope{}, &RoutingFailure{
			Reason: ReasonBadStatus,
			Target: targetURL,
			Err:    fmt.Errorf("peer returned status %d", resp.StatusCode),
		}
	}

	var reply MessageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return MessageEnvelope{}, &RoutingFailure{Reason: ReasonBadBody, Target: targetURL, Err: err}
	}
	if reply.Content.Text == "" {
		return MessageEnvelope{}, &RoutingFailure{
			Reason: ReasonBadBody,
			Target: targetURL,
			Err:    errors.New("peer response has no text content"),
		}
	}

	return reply, nil
}

func classifyTransport(err error) FailureReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonUnreachable
}
