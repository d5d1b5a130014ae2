package mocknet

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
)

// ReplyMode controls what a UDPResponder sends back for each datagram.
type ReplyMode int

const (
	// ReplyFixed answers every datagram with a configured payload.
	ReplyFixed ReplyMode = iota
	// ReplyEcho answers with the received bytes.
	ReplyEcho
	// ReplySilent receives but never answers, forcing the knocker into
	// its timeout/retry path.
	ReplySilent
)

// UDPResponder is a single-socket UDP service with a one-shot lifecycle
// identical to TCPListener's.
type UDPResponder struct {
	host    string
	conn    *net.UDPConn
	port    int
	mode    ReplyMode
	payload []byte

	state    atomic.Int32
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewUDPResponder binds host:0. payload is only used with ReplyFixed;
// nil defaults to "pong".
func NewUDPResponder(host string, mode ReplyMode, payload []byte) (*UDPResponder, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	if mode == ReplyFixed && payload == nil {
		payload = []byte("pong")
	}
	return &UDPResponder{
		host:    host,
		conn:    conn,
		port:    conn.LocalAddr().(*net.UDPAddr).Port,
		mode:    mode,
		payload: payload,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (u *UDPResponder) Port() int { return u.port }

func (u *UDPResponder) Addr() string {
	return net.JoinHostPort(u.host, strconv.Itoa(u.port))
}

func (u *UDPResponder) State() State { return State(u.state.Load()) }

// Start launches the receive loop. Callable once.
func (u *UDPResponder) Start() {
	if !u.state.CompareAndSwap(int32(Created), int32(Running)) {
		return
	}
	go u.serve()
}

func (u *UDPResponder) serve() {
	defer close(u.done)
	buf := make([]byte, 2048)
	for {
		select {
		case <-u.stop:
			return
		default:
		}
		_ = u.conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, addr, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return // socket closed
		}
		if u.mode == ReplySilent {
			continue
		}
		reply := u.payload
		if u.mode == ReplyEcho {
			reply = buf[:n]
		}
		// Send errors don't matter to the scenario; the knock already
		// reached us.
		_, _ = u.conn.WriteToUDP(reply, addr)
	}
}

// Stop signals the loop, sends an empty datagram to its own port to
// unblock a pending receive, closes the socket and waits for the loop.
func (u *UDPResponder) Stop() error {
	var err error
	u.stopOnce.Do(func() {
		started := u.state.Load() != int32(Created)
		u.state.Store(int32(Stopping))
		close(u.stop)
		if c, derr := net.Dial("udp", u.Addr()); derr == nil {
			_, _ = c.Write([]byte{})
			_ = c.Close()
		}
		err = multierr.Append(err, u.conn.Close())
		if started {
			select {
			case <-u.done:
			case <-time.After(joinTimeout):
				err = multierr.Append(err, errors.New("udp receive loop did not exit"))
			}
		}
		u.state.Store(int32(Stopped))
	})
	return err
}
