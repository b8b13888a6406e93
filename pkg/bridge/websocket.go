package bridge

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/bridge/wire"
	"github.com/Al-ze/ISM43362-M3G-L44-Driver/pkg/framework"
)

// WSServer serves the wire protocol over WebSocket, one Request and
// one Reply per binary frame, for LAN clients without a broker.
type WSServer struct {
	Addr string
	Dev  Commander
}

// Run implements framework.Runnable: listen on Addr and serve until
// the context is canceled.
func (s *WSServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s", lis.Addr())
	return framework.RunWithContextCloser(ctx, lis, func() error {
		err := http.Serve(lis, s.handler(ctx))
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	})
}

// Handler returns the http.Handler speaking the wire protocol, usable
// standalone under an existing mux.
func (s *WSServer) Handler() http.Handler {
	return s.handler(context.Background())
}

// handler binds every connection to ctx so in-flight exchanges stop
// with the server.
func (s *WSServer) handler(ctx context.Context) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		s.serve(ctx, conn)
	})
}

func (s *WSServer) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	glog.V(2).Infof("websocket peer %s", conn.Request().RemoteAddr)
	for {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			return
		}
		req, err := wire.DecodeRequest(frame)
		if err != nil {
			glog.Errorf("bad request frame: %v", err)
			return
		}
		rsp, err := s.Dev.Do(ctx, req.Command)
		reply := &wire.Reply{Seq: req.Seq, Response: rsp}
		if err != nil {
			reply.Error = err.Error()
		}
		data, err := reply.Encode()
		if err != nil {
			glog.Errorf("encode reply %d: %v", reply.Seq, err)
			return
		}
		if err = websocket.Message.Send(conn, data); err != nil {
			return
		}
	}
}
