package addrspec

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type capturedMail struct {
	from string
	to   []string
	data []byte
}

type mockSink struct {
	mu    sync.Mutex
	mails []capturedMail
}

func (o *mockSink) handle(_ context.Context, _ net.Addr, from string, to []string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mails = append(o.mails, capturedMail{from: from, to: to, data: data})
	return nil
}

func (o *mockSink) captured() []capturedMail {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]capturedMail(nil), o.mails...)
}

func startServer(t *testing.T, sink Sink) (*Server, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	v, err := New()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	s, err := NewServer("localhost:0", "", v, sink, WithHostname("gate.example.com"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, s.Serve(ctx))
	}()
	select {
	case <-ctx.Done():
		t.FailNow()
	case <-s.Ready():
	}
	return s, func() {
		cancel()
		<-done
	}
}

func TestServer(t *testing.T) {
	o := &mockSink{}
	s, stop := startServer(t, o.handle)
	defer stop()

	c, err := smtp.Dial(s.Addr().String())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer c.Close()
	if !assert.NoError(t, c.Hello("sender.example.com")) {
		t.FailNow()
	}
	if !assert.NoError(t, c.Mail("foo@example.com")) {
		t.FailNow()
	}
	assert.Error(t, c.Rcpt("nobody"))
	if !assert.NoError(t, c.Rcpt("bar@example.com")) {
		t.FailNow()
	}
	w, err := c.Data()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = w.Write([]byte("Subject: hello\r\n\r\nHello, world!\r\n"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	if !assert.NoError(t, w.Close()) {
		t.FailNow()
	}
	assert.NoError(t, c.Quit())

	mails := o.captured()
	if assert.Len(t, mails, 1) {
		assert.Equal(t, "foo@example.com", mails[0].from)
		assert.Equal(t, []string{"bar@example.com"}, mails[0].to)
		m, err := mail.ReadMessage(bytes.NewReader(mails[0].data))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.Equal(t, "hello", m.Header.Get("Subject"))
		b, err := io.ReadAll(m.Body)
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		assert.Equal(t, []byte("Hello, world!\r\n"), b)
	}
}

func TestServerRejectsMalformedReversePath(t *testing.T) {
	o := &mockSink{}
	s, stop := startServer(t, o.handle)
	defer stop()

	c, err := smtp.Dial(s.Addr().String())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer c.Close()
	if !assert.NoError(t, c.Mail("foo..bar@example.com")) {
		t.FailNow()
	}
	assert.Error(t, c.Rcpt("bar@example.com"))
	assert.NoError(t, c.Quit())
	assert.Empty(t, o.captured())
}

func TestNewServer(t *testing.T) {
	v, err := New()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	_, err = NewServer("localhost:0", "", nil, nil)
	assert.Error(t, err)
	_, err = NewServer("localhost:0", "localhost:0", v, nil)
	assert.Error(t, err)
	s, err := NewServer("localhost:0", "", v, nil)
	if assert.NoError(t, err) {
		assert.Nil(t, s.Addr())
	}
}

func TestServerFailsWhenPortIsTaken(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	defer occupied.Close()

	v, err := New()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	for i := 0; i < 10; i++ {
		s, err := NewServer("127.0.0.1:0", occupied.Addr().String(), v, nil, WithTLSConfig(&tls.Config{}))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
		errChan := make(chan error, 1)
		go func() {
			errChan <- s.Serve(context.Background())
		}()
		select {
		case err := <-errChan:
			assert.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("#%d: Serve did not return", i)
		}
		select {
		case <-s.Ready():
		default:
			t.Fatalf("#%d: ready channel left open", i)
		}
	}
}
