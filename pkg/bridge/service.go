package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/bridge/wire"
)

// DefaultExchangeTimeout bounds one command exchange run on behalf of
// a remote caller.
const DefaultExchangeTimeout = 5 * time.Second

// Commander runs one command exchange against a module.
type Commander interface {
	Do(ctx context.Context, cmd string) (string, error)
}

// Exchanger serializes exchanges on a shared module handle and bounds
// each one with a timeout. It implements Commander and is safe for
// concurrent use, which the bare device handle is not.
type Exchanger struct {
	Dev     Commander
	Timeout time.Duration

	mu sync.Mutex
}

// Do implements Commander with one exchange in flight at a time.
func (e *Exchanger) Do(ctx context.Context, cmd string) (string, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Dev.Do(ctx, cmd)
}

// Meta is the retained device description published next to the
// command topics.
type Meta struct {
	Description string `json:"description,omitempty"`
	SSID        string `json:"ssid,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Service exposes one module on the queue under Name.
//
// Topics relative to the queue prefix: NAME/cmd receives Request
// frames, NAME/rsp carries the Reply frames, and NAME/meta holds the
// retained Meta document, cleared when the service stops.
type Service struct {
	Queue *Queue
	Name  string
	Meta  Meta
	Dev   Commander

	ctx context.Context
}

// NewService builds the queue for serverURL, with a last will clearing
// the retained meta, and the service publishing device dev as name.
func NewService(serverURL, name string, dev Commander) (*Service, error) {
	options, prefix, err := ClientOptionsFromURL(serverURL)
	if err != nil {
		return nil, err
	}
	options.SetBinaryWill(prefix+name+"/meta", nil, 1, true)
	if options.ClientID == "" {
		options.SetClientID("eswifi:" + name)
	}
	s := &Service{Queue: NewQueue(options, prefix), Name: name, Dev: dev}
	s.Queue.OnConnect = func(*Queue) { s.publishMeta() }
	return s, nil
}

// Run implements framework.Runnable: serve requests until the context
// is canceled, then clear the retained meta and disconnect.
func (s *Service) Run(ctx context.Context) error {
	s.ctx = ctx
	if err := s.Queue.Connect(); err != nil {
		return err
	}
	s.publishMeta()
	sub := s.Queue.Sub(s.Name+"/cmd", s.handleRequest)
	glog.Infof("serving %q", s.Queue.TopicPrefix+s.Name)
	<-ctx.Done()
	sub.Close()
	s.Queue.PubWith(s.Name+"/meta", nil, 1, true).Wait()
	s.Queue.Close()
	return nil
}

func (s *Service) publishMeta() {
	meta, err := json.Marshal(&s.Meta)
	if err != nil {
		panic(err)
	}
	s.Queue.PubWith(s.Name+"/meta", meta, 1, true)
}

func (s *Service) handleRequest(_ string, payload []byte) {
	req, err := wire.DecodeRequest(payload)
	if err != nil {
		glog.Errorf("bad request frame: %v", err)
		return
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	reply := s.exchange(ctx, req)
	data, err := reply.Encode()
	if err != nil {
		glog.Errorf("encode reply %d: %v", reply.Seq, err)
		return
	}
	s.Queue.Pub(s.Name+"/rsp", data)
}

func (s *Service) exchange(ctx context.Context, req *wire.Request) *wire.Reply {
	glog.V(2).Infof("CMD #%d %q", req.Seq, req.Command)
	rsp, err := s.Dev.Do(ctx, req.Command)
	reply := &wire.Reply{Seq: req.Seq, Response: rsp}
	if err != nil {
		reply.Error = err.Error()
		glog.Warningf("command %q failed: %v", req.Command, err)
	}
	return reply
}
