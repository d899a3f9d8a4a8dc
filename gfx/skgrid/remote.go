package skgrid

import (
	"fmt"
	"net"
	"time"
)

// Remote is a Driver that sends frames over TCP to a grid controller, which answers every
// frame with a one byte status.
type Remote struct {
	sock    net.Conn
	timeout time.Duration
}

// NewRemote connects to the controller at addr.
func NewRemote(addr string) (*Remote, error) {
	sock, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Remote{sock: sock, timeout: time.Second}, nil
}

func (s *Remote) Send(b []byte) error {
	if err := s.sock.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	n, err := s.sock.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("only wrote %d of %d bytes", n, len(b))
	}
	r := []byte{0}
	if _, err := s.sock.Read(r); err != nil {
		return err
	}
	if r[0] != 0x01 {
		return fmt.Errorf("remote returned error code %2x", r[0])
	}
	return nil
}

func (s *Remote) Close() error {
	return s.sock.Close()
}
