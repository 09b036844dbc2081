package ws

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
	"github.com/Wyydra/callrelay/internal/core/port"
	"github.com/gorilla/websocket"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	writeWait               = 10 * time.Second
)

// Dialer opens one realtime websocket per call, authenticated by bearer token.
type Dialer struct {
	endpoint string
	apiKey   string
	dialer   websocket.Dialer
}

func NewDialer(endpoint, apiKey string) *Dialer {
	return &Dialer{
		endpoint: endpoint,
		apiKey:   apiKey,
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
		},
	}
}

func (d *Dialer) streamURL(callID domain.CallID) (string, error) {
	u, err := url.Parse(d.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("call_id", callID.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *Dialer) Dial(ctx context.Context, callID domain.CallID) (port.Stream, error) {
	rawURL, err := d.streamURL(callID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStreamConnect, err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+d.apiKey)

	conn, resp, err := d.dialer.DialContext(ctx, rawURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %v (status %d)", domain.ErrStreamConnect, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStreamConnect, err)
	}

	return &Stream{conn: conn}, nil
}

// Stream wraps a websocket connection. Close may be called from any
// goroutine; reads and writes belong to the owning worker.
type Stream struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

func (s *Stream) SendJSON(v any) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStreamIO, err)
	}
	return nil
}

func (s *Stream) Receive() ([]byte, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("%w: %v", domain.ErrStreamClosed, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStreamIO, err)
	}
	return msg, nil
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
