package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/bridge/wire"
)

// DefaultDiscoverWait bounds the listening window of Discover.
const DefaultDiscoverWait = 500 * time.Millisecond

// RemoteError is a failure reported by the remote bridge.
type RemoteError struct {
	Message string
}

// Error implements error.
func (e *RemoteError) Error() string {
	return e.Message
}

// DeviceInfo describes one discovered device.
type DeviceInfo struct {
	Name string `json:"name"`
	Meta Meta   `json:"meta"`
}

// Client drives a remote Service. It implements Commander, so local
// and bridged devices are interchangeable to callers.
type Client struct {
	Queue *Queue
	Name  string

	mu      sync.Mutex
	seq     uint32
	pending map[uint32]chan *wire.Reply
	sub     *Subscription
}

// NewClient creates a Client for the device named name.
func NewClient(serverURL, name string) (*Client, error) {
	q, err := NewQueueFromURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{Queue: q, Name: name}, nil
}

// Connect connects to the broker and subscribes the reply topic.
func (c *Client) Connect() error {
	if err := c.Queue.Connect(); err != nil {
		return err
	}
	c.sub = c.Queue.Sub(c.Name+"/rsp", c.handleReply)
	return nil
}

// Close drops the subscription and disconnects.
func (c *Client) Close() error {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
	return c.Queue.Close()
}

// Do implements Commander: publish one Request and wait for the
// matching Reply. The context bounds the wait.
func (c *Client) Do(ctx context.Context, cmd string) (string, error) {
	ch := make(chan *wire.Reply, 1)
	c.mu.Lock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	seq := c.seq
	if c.pending == nil {
		c.pending = make(map[uint32]chan *wire.Reply)
	}
	c.pending[seq] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	data, err := (&wire.Request{Seq: seq, Command: cmd}).Encode()
	if err != nil {
		return "", err
	}
	token := c.Queue.Pub(c.Name+"/cmd", data)
	token.Wait()
	if err = token.Error(); err != nil {
		return "", err
	}

	select {
	case reply := <-ch:
		if reply.Error != "" {
			return reply.Response, &RemoteError{Message: reply.Error}
		}
		return reply.Response, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) handleReply(_ string, payload []byte) {
	reply, err := wire.DecodeReply(payload)
	if err != nil {
		return
	}
	c.mu.Lock()
	ch := c.pending[reply.Seq]
	delete(c.pending, reply.Seq)
	c.mu.Unlock()
	if ch != nil {
		ch <- reply
	}
}

// Discover lists the devices with a retained meta document under the
// queue prefix of serverURL, listening for wait (DefaultDiscoverWait
// when zero).
func Discover(ctx context.Context, serverURL string, wait time.Duration) ([]DeviceInfo, error) {
	q, err := NewQueueFromURL(serverURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	defer q.Close()
	return DiscoverOn(ctx, q, wait)
}

// DiscoverOn runs discovery on an already connected Queue.
func DiscoverOn(ctx context.Context, q *Queue, wait time.Duration) ([]DeviceInfo, error) {
	infoCh := make(chan DeviceInfo, 16)
	sub := q.Sub("+/meta", func(topic string, payload []byte) {
		if len(payload) == 0 {
			return // registration cleared
		}
		var meta Meta
		if err := json.Unmarshal(payload, &meta); err != nil {
			return
		}
		select {
		case infoCh <- DeviceInfo{Name: strings.TrimSuffix(topic, "/meta"), Meta: meta}:
		default:
		}
	})
	defer sub.Close()

	if wait <= 0 {
		wait = DefaultDiscoverWait
	}
	deadline := time.After(wait)
	var infos []DeviceInfo
	for {
		select {
		case info := <-infoCh:
			infos = append(infos, info)
		case <-deadline:
			return infos, nil
		case <-ctx.Done():
			return infos, ctx.Err()
		}
	}
}
