package voice

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	queueSize  = 64
)

var errOutboundClosed = errors.New("outbound queue closed")

// outbound serializes all writes to one client connection through a single
// goroutine. The relay goroutine and the turn loop both emit frames, and
// gorilla connections allow only one concurrent writer.
type outbound struct {
	conn    *websocket.Conn
	ch      chan interface{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newOutbound(conn *websocket.Conn) *outbound {
	o := &outbound{
		conn:    conn,
		ch:      make(chan interface{}, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go o.writeLoop()
	return o
}

// Send enqueues one JSON frame. It fails once the queue is closed or the
// writer has died, which callers treat as a gone connection.
func (o *outbound) Send(v interface{}) error {
	select {
	case <-o.done:
		return errOutboundClosed
	case o.ch <- v:
		return nil
	}
}

// Close stops the writer and blocks until already queued frames have been
// drained. Callers close the connection only after Close returns, so a
// diagnostic frame sent just before teardown still reaches the client.
func (o *outbound) Close() {
	o.signal()
	<-o.stopped
}

// signal requests shutdown without waiting; the write loop uses it on write
// failure so it never blocks on its own exit.
func (o *outbound) signal() {
	o.once.Do(func() { close(o.done) })
}

func (o *outbound) writeLoop() {
	defer close(o.stopped)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-o.done:
			o.drain()
			return
		case msg := <-o.ch:
			if err := o.write(msg); err != nil {
				o.signal()
				return
			}
		case <-ticker.C:
			o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				o.signal()
				return
			}
		}
	}
}

func (o *outbound) drain() {
	for {
		select {
		case msg := <-o.ch:
			if o.write(msg) != nil {
				return
			}
		default:
			return
		}
	}
}

func (o *outbound) write(msg interface{}) error {
	o.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return o.conn.WriteJSON(msg)
}
