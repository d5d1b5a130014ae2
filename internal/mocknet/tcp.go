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

// TCPListener accepts connections on an ephemeral port, optionally
// drains a few bytes and closes them. It completes the handshake, which
// is all a connect-based knock needs to observe success; no application
// protocol is spoken.
type TCPListener struct {
	host string
	ln   *net.TCPListener
	port int

	state    atomic.Int32
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewTCPListener binds host:0. The assigned port is available from Port
// immediately, before Start.
func NewTCPListener(host string) (*TCPListener, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, err
	}
	return &TCPListener{
		host: host,
		ln:   ln.(*net.TCPListener),
		port: ln.Addr().(*net.TCPAddr).Port,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

func (l *TCPListener) Port() int { return l.port }

func (l *TCPListener) Addr() string {
	return net.JoinHostPort(l.host, strconv.Itoa(l.port))
}

func (l *TCPListener) State() State { return State(l.state.Load()) }

// Start launches the accept loop. Callable once; not safe to call
// concurrently with Stop.
func (l *TCPListener) Start() {
	if !l.state.CompareAndSwap(int32(Created), int32(Running)) {
		return
	}
	go l.serve()
}

func (l *TCPListener) serve() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		default:
		}
		_ = l.ln.SetDeadline(time.Now().Add(pollInterval))
		conn, err := l.ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return // socket closed
		}
		// Read/ignore a bit to keep the connection simple.
		_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		buf := make([]byte, 16)
		_, _ = conn.Read(buf)
		_ = conn.Close()
	}
}

// Stop signals the loop, nudges a pending accept with a throwaway
// connection, closes the socket and waits for the loop to finish.
func (l *TCPListener) Stop() error {
	var err error
	l.stopOnce.Do(func() {
		started := l.state.Load() != int32(Created)
		l.state.Store(int32(Stopping))
		close(l.stop)
		if c, derr := net.DialTimeout("tcp", l.Addr(), pollInterval); derr == nil {
			_ = c.Close()
		}
		err = multierr.Append(err, l.ln.Close())
		if started {
			select {
			case <-l.done:
			case <-time.After(joinTimeout):
				err = multierr.Append(err, errors.New("tcp accept loop did not exit"))
			}
		}
		l.state.Store(int32(Stopped))
	})
	return err
}
