package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// commandTimeout caps a single command exchange when the caller's context
// carries no deadline of its own.
const commandTimeout = 30 * time.Second

// cdpRequest is one outbound DevTools command frame.
type cdpRequest struct {
	ID     int64          `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// cdpEnvelope is any inbound frame: a command reply carries an id, a protocol
// event carries a method instead.
type cdpEnvelope struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  *cdpError       `json:"error"`
}

type cdpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *cdpError) Error() string {
	return fmt.Sprintf("cdp error %d: %s", e.Code, e.Message)
}

// call sends one command and reads frames until its reply arrives. Socket
// errors are permanent on a gorilla connection, so a transport failure drops
// the connection and the next command redials the page target.
func (c *Chrome) call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		err := c.dialTargetLocked(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
	}

	raw, err := c.exchangeLocked(ctx, method, params)
	if err != nil {
		var protocolErr *cdpError
		if !errors.As(err, &protocolErr) {
			_ = c.conn.Close()
			c.conn = nil
		}
		return nil, err
	}
	return raw, nil
}

// dialTargetLocked attaches a fresh connection to the page target and enables
// the protocol domains, which are per-connection state. Callers hold c.mu.
func (c *Chrome) dialTargetLocked(ctx context.Context) error {
	if c.targetURL == "" {
		return fmt.Errorf("browser not open")
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.targetURL, nil)
	if err != nil {
		return fmt.Errorf("dial devtools %s: %w", c.targetURL, err)
	}
	c.conn = conn

	for _, method := range []string{"Page.enable", "Runtime.enable"} {
		_, err = c.exchangeLocked(ctx, method, nil)
		if err != nil {
			_ = c.conn.Close()
			c.conn = nil
			return fmt.Errorf("enable devtools domain: %w", err)
		}
	}

	c.logger.Debug("browser-target-dialed", zap.String("target", c.targetURL))
	return nil
}

// exchangeLocked performs one command exchange on the open connection,
// skipping interleaved protocol events. Cancellation is honored through the
// context deadline folded into the socket deadlines. Callers hold c.mu.
func (c *Chrome) exchangeLocked(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	c.nextID++
	id := c.nextID

	payload, err := json.Marshal(cdpRequest{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", method, err)
	}

	deadline := time.Now().Add(commandTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	CommandsTotal.WithLabelValues(method).Inc()
	_ = c.conn.SetWriteDeadline(deadline)
	err = c.conn.WriteMessage(websocket.TextMessage, payload)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("read %s reply: %w", method, err)
		}

		var env cdpEnvelope
		err = json.Unmarshal(data, &env)
		if err != nil {
			c.logger.Debug("browser-frame-undecodable", zap.Error(err))
			continue
		}
		if env.ID != id {
			// Protocol events and stale replies interleave with the one we want.
			continue
		}
		if env.Error != nil {
			return nil, fmt.Errorf("%s: %w", method, env.Error)
		}
		return env.Result, nil
	}
}

// evaluateResult is the Runtime.evaluate reply shape.
type evaluateResult struct {
	Result struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"result"`
	ExceptionDetails *struct {
		Text      string `json:"text"`
		Exception *struct {
			Description string `json:"description"`
		} `json:"exception"`
	} `json:"exceptionDetails"`
}

// evaluate runs an expression in the page and decodes its by-value result
// into out. A nil out discards the value. Page-side exceptions surface as
// errors.
func (c *Chrome) evaluate(ctx context.Context, expression string, out any) error {
	raw, err := c.call(ctx, "Runtime.evaluate", map[string]any{
		"expression":    expression,
		"returnByValue": true,
		"awaitPromise":  true,
	})
	if err != nil {
		return err
	}

	var res evaluateResult
	err = json.Unmarshal(raw, &res)
	if err != nil {
		return fmt.Errorf("decode evaluate reply: %w", err)
	}

	if res.ExceptionDetails != nil {
		desc := res.ExceptionDetails.Text
		if res.ExceptionDetails.Exception != nil && res.ExceptionDetails.Exception.Description != "" {
			desc = res.ExceptionDetails.Exception.Description
		}
		return fmt.Errorf("page script failed: %s", desc)
	}

	if out == nil || res.Result.Value == nil {
		return nil
	}

	err = json.Unmarshal(res.Result.Value, out)
	if err != nil {
		return fmt.Errorf("decode script value: %w", err)
	}
	return nil
}
