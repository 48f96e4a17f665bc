package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// transferTopic is the keccak256 hash of Transfer(address,address,uint256),
// the first topic of every ERC-20 transfer log.
const transferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Log is one log notification delivered by an eth_subscribe("logs") stream.
type Log struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
	LogIndex    string   `json:"logIndex"`
	Removed     bool     `json:"removed"`
}

// WSClient subscribes to ERC-20 Transfer logs over WebSocket with automatic
// reconnect and resubscription.
type WSClient struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// subs maps subscription ID to delivery channel
	subs   map[string]chan Log
	subsMu sync.RWMutex

	// activeAddresses stores watched addresses per subscription for
	// resubscription after reconnect
	activeAddresses   map[string][]string
	activeAddressesMu sync.RWMutex

	// pendingSubs maps request ID to channel waiting for subscription ID
	pendingSubs   map[uint64]chan string
	pendingSubsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewWSClient creates a WebSocket client and connects to the endpoint.
func NewWSClient(ctx context.Context, endpoint string, config *WSClientConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSClient{
		endpoint:        endpoint,
		config:          cfg,
		subs:            make(map[string]chan Log),
		activeAddresses: make(map[string][]string),
		pendingSubs:     make(map[uint64]chan string),
		done:            make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	return c, nil
}

// connect establishes the WebSocket connection.
func (c *WSClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// wsRequest is a JSON-RPC request over the socket.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// wsMessage is either a subscription confirmation or a notification.
type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Method string          `json:"method"`
	Params *wsNotifyParams `json:"params"`
	Error  *rpcError       `json:"error"`
}

type wsNotifyParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// SubscribeTransfers subscribes to Transfer logs emitted by the given token
// addresses. An empty address list subscribes to all Transfer logs.
func (c *WSClient) SubscribeTransfers(ctx context.Context, addresses []string) (<-chan Log, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("client closed")
	}

	reqID := c.requestID.Add(1)

	filter := map[string]interface{}{
		"topics": []interface{}{transferTopic},
	}
	if len(addresses) > 0 {
		filter["address"] = addresses
	}

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "eth_subscribe",
		Params:  []interface{}{"logs", filter},
	}

	confirmCh := make(chan string, 1)
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = confirmCh
	c.pendingSubsMu.Unlock()

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		c.dropPending(reqID)
		return nil, fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()

	if err != nil {
		c.dropPending(reqID)
		return nil, fmt.Errorf("write subscribe: %w", err)
	}

	var subID string
	select {
	case subID = <-confirmCh:
		if subID == "" {
			return nil, fmt.Errorf("subscription rejected")
		}
	case <-time.After(30 * time.Second):
		c.dropPending(reqID)
		return nil, fmt.Errorf("subscription timeout after 30s")
	case <-c.done:
		return nil, fmt.Errorf("client closed")
	case <-ctx.Done():
		c.dropPending(reqID)
		return nil, ctx.Err()
	}

	// Buffered channel absorbs bursts; delivery never drops events
	ch := make(chan Log, 10000)
	c.subsMu.Lock()
	c.subs[subID] = ch
	c.subsMu.Unlock()

	c.activeAddressesMu.Lock()
	c.activeAddresses[subID] = addresses
	c.activeAddressesMu.Unlock()

	return ch, nil
}

func (c *WSClient) dropPending(reqID uint64) {
	c.pendingSubsMu.Lock()
	delete(c.pendingSubs, reqID)
	c.pendingSubsMu.Unlock()
}

// Close closes the connection and all subscription channels.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()

	c.pendingSubsMu.Lock()
	for id, ch := range c.pendingSubs {
		close(ch)
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads messages and dispatches to subscribers, reconnecting with
// exponential backoff on connection errors.
func (c *WSClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay *= 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = c.config.ReconnectDelay
		c.handleMessage(message)
	}
}

// handleMessage routes confirmations and log notifications.
func (c *WSClient) handleMessage(message []byte) {
	var msg wsMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	// Subscription confirmation
	if msg.ID != 0 {
		c.pendingSubsMu.Lock()
		ch, ok := c.pendingSubs[msg.ID]
		if ok {
			delete(c.pendingSubs, msg.ID)
		}
		c.pendingSubsMu.Unlock()

		if ok {
			var subID string
			if msg.Error == nil {
				_ = json.Unmarshal(msg.Result, &subID)
			}
			ch <- subID
		}
		return
	}

	// Log notification
	if msg.Method != "eth_subscription" || msg.Params == nil {
		return
	}

	var logEntry Log
	if err := json.Unmarshal(msg.Params.Result, &logEntry); err != nil {
		return
	}

	c.subsMu.RLock()
	ch, ok := c.subs[msg.Params.Subscription]
	c.subsMu.RUnlock()

	if ok {
		select {
		case ch <- logEntry:
		case <-c.done:
		}
	}
}

// reconnect re-establishes the connection and resubscribes active filters.
func (c *WSClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Will retry on next read error
		return
	}

	c.resubscribeAll(ctx)
}

// resubscribeAll replays active subscriptions onto the new connection,
// rebinding old subscription IDs to the new server-assigned ones.
func (c *WSClient) resubscribeAll(ctx context.Context) {
	c.activeAddressesMu.RLock()
	old := make(map[string][]string, len(c.activeAddresses))
	for id, addrs := range c.activeAddresses {
		old[id] = addrs
	}
	c.activeAddressesMu.RUnlock()

	for oldID, addrs := range old {
		c.subsMu.Lock()
		ch, ok := c.subs[oldID]
		if ok {
			delete(c.subs, oldID)
		}
		c.subsMu.Unlock()
		if !ok {
			continue
		}

		c.activeAddressesMu.Lock()
		delete(c.activeAddresses, oldID)
		c.activeAddressesMu.Unlock()

		newCh, err := c.SubscribeTransfers(ctx, addrs)
		if err != nil {
			close(ch)
			continue
		}

		// Bridge the new stream onto the caller's original channel
		c.wg.Add(1)
		go func(dst chan Log, src <-chan Log) {
			defer c.wg.Done()
			for logEntry := range src {
				select {
				case dst <- logEntry:
				case <-c.done:
					return
				}
			}
		}(ch, newCh)
	}
}
