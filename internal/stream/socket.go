package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"talio/internal/domain"
	"talio/internal/events"
)

// Conn is the part of a websocket connection a Socket needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Registry is where sockets subscribe their observer.
type Registry interface {
	Subscribe(board int64, o domain.BoardObserver)
	Unsubscribe(board int64, o domain.BoardObserver)
	UnsubscribeAll(o domain.BoardObserver)
}

const subscribeType = "subscribeToBoard"

type inbound struct {
	Type  string `json:"type"`
	Board int64  `json:"board"`
}

// Socket pushes the events of at most one board to one client.
type Socket struct {
	id     string
	conn   Conn
	reg    Registry
	logger *log.Logger
	obs    *socketObserver

	writeMu sync.Mutex

	mu    sync.Mutex
	board int64
}

func NewSocket(conn Conn, reg Registry, logger *log.Logger) *Socket {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Socket{id: uuid.NewString(), conn: conn, reg: reg, logger: logger}
	s.obs = &socketObserver{Observer: events.NewObserver(s), socket: s}
	return s
}

func (s *Socket) ID() string { return s.id }

// Board reports the subscribed board, 0 when unsubscribed.
func (s *Socket) Board() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Observer is the identity this socket registers with.
func (s *Socket) Observer() domain.BoardObserver { return s.obs }

// Send writes one event to the client.
func (s *Socket) Send(e events.Event) error {
	data, err := events.Marshal(e)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Serve reads client messages until the connection fails or ctx ends, then
// drops every subscription of the socket.
func (s *Socket) Serve(ctx context.Context) error {
	defer s.reg.UnsubscribeAll(s.obs)
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || IsClosed(err) {
				return nil
			}
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := s.handle(data); err != nil {
			return err
		}
	}
}

func (s *Socket) handle(data []byte) error {
	var msg inbound
	if err := sonic.Unmarshal(data, &msg); err == nil && msg.Type == subscribeType {
		s.subscribe(msg.Board)
		return nil
	}
	return s.Send(events.MessageProcessed{Message: string(data)})
}

// subscribe switches the socket to board; 0 unsubscribes.
func (s *Socket) subscribe(board int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == board {
		return
	}
	if s.board != 0 {
		s.reg.Unsubscribe(s.board, s.obs)
	}
	if board != 0 {
		s.reg.Subscribe(board, s.obs)
	}
	s.logger.WithFields(log.Fields{"socket": s.id, "from": s.board, "to": board}).Debug("socket subscription changed")
	s.board = board
}

// Detach drops every subscription of the socket and returns it to the
// unsubscribed state. The client may subscribe again afterwards.
func (s *Socket) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.UnsubscribeAll(s.obs)
	s.board = 0
}

// Detach resets the socket behind o if o is a socket observer. Other
// observers are left alone.
func Detach(o domain.BoardObserver) {
	if so, ok := o.(*socketObserver); ok {
		so.socket.Detach()
	}
}

func (s *Socket) reset(board int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board != board {
		return
	}
	s.reg.Unsubscribe(board, s.obs)
	s.board = 0
}

// socketObserver drops the subscription once the watched board is removed.
type socketObserver struct {
	*events.Observer
	socket *Socket
}

func (o *socketObserver) Removed(b *domain.Board) error {
	err := o.Observer.Removed(b)
	o.socket.reset(b.ID())
	return err
}

// IsClosed reports whether err means the peer went away.
func IsClosed(err error) bool {
	return errors.Is(err, websocket.ErrCloseSent) || websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
