package fanlog

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of a NATS connection the sink needs; *nats.Conn satisfies it
type Publisher interface {
	Publish(subject string, data []byte) error
	Flush() error
}

// NATSSink publishes each formatted record on a subject
type NATSSink struct {
	sinkBase
	pub     Publisher
	subject string
	conn    *nats.Conn // Set only when the sink dialed the connection itself
	closed  bool
}

// NewNATSSink publishes through an existing connection; the caller keeps ownership of pub
func NewNATSSink(pub Publisher, subject string, mode LockMode) (*NATSSink, error) {
	if pub == nil {
		return nil, fmtErrorf("nats sink: publisher cannot be nil")
	}
	if subject == "" {
		return nil, fmtErrorf("nats sink: subject cannot be empty")
	}
	return &NATSSink{sinkBase: newSinkBase(mode), pub: pub, subject: subject}, nil
}

// DialNATSSink connects to url and publishes on subject; Close drains the connection
func DialNATSSink(url, subject string, mode LockMode) (*NATSSink, error) {
	if subject == "" {
		return nil, fmtErrorf("nats sink '%s': subject cannot be empty", url)
	}
	conn, err := nats.Connect(url,
		nats.Name("fanlog-"+subject),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmtErrorf("nats sink '%s': failed to connect: %w", url, err)
	}
	s, err := NewNATSSink(conn, subject, mode)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// Subject returns the subject records are published on
func (s *NATSSink) Subject() string {
	return s.subject
}

// Log publishes a copy of the record's formatted bytes
func (s *NATSSink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.Level.passes(s.Level()) {
		return nil
	}

	if s.closed {
		return ErrSinkClosed
	}
	// Publishers may buffer the slice; the formatter owns rec.Formatted
	data := make([]byte, len(rec.Formatted))
	copy(data, rec.Formatted)
	if err := s.pub.Publish(s.subject, data); err != nil {
		return fmtErrorf("nats sink: failed to publish on '%s': %w", s.subject, err)
	}
	return nil
}

// Flush round-trips to the server so published records are acknowledged
func (s *NATSSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if err := s.pub.Flush(); err != nil {
		return fmtErrorf("nats sink: flush failed: %w", err)
	}
	return nil
}

// Close flushes and, if the sink dialed the connection, drains it
func (s *NATSSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	err := s.pub.Flush()
	if err != nil {
		err = fmtErrorf("nats sink: flush failed: %w", err)
	}
	if s.conn != nil {
		if drainErr := s.conn.Drain(); drainErr != nil {
			err = combineErrors(err, fmtErrorf("nats sink: drain failed: %w", drainErr))
		}
	}
	return err
}
