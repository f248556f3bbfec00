package addrspec

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/mhale/smtpd"
	"golang.org/x/sync/errgroup"

	"github.com/moriyoshi/addrspec/internal/logging"
)

const appName = "addrspec"

// Sink receives the messages whose envelope addresses passed validation.
type Sink func(ctx context.Context, origin net.Addr, from string, to []string, data []byte) error

// DiscardSink accepts and drops every message.
func DiscardSink(context.Context, net.Addr, string, []string, []byte) error {
	return nil
}

type listenerSlot struct {
	s         *smtpd.Server
	readyChan chan *listenerSlot
	l         net.Listener
}

func (slot *listenerSlot) Valid() bool {
	return slot.s != nil
}

func (slot *listenerSlot) Ready() <-chan *listenerSlot {
	return slot.readyChan
}

func (slot *listenerSlot) setListener(l net.Listener) {
	slot.l = l
	slot.readyChan <- slot
}

// setListener must not block after Serve stops reading ready channels.
func newListenerSlot(s *smtpd.Server) listenerSlot {
	return listenerSlot{s: s, readyChan: make(chan *listenerSlot, 1)}
}

// Server is an SMTP listener that turns away envelopes whose reverse-path or
// forward-path is not a valid addr-spec.
type Server struct {
	addr           string
	implicitAddr   string
	hostname       string
	tlsConfig      *tls.Config
	timeout        time.Duration
	logger         *slog.Logger
	validator      *Validator
	sink           Sink
	server         listenerSlot
	serverImplicit listenerSlot
	readyChan      chan struct{}
}

type ServerOptionFunc func(s *Server) error

func WithHostname(hostname string) ServerOptionFunc {
	return func(s *Server) error {
		s.hostname = hostname
		return nil
	}
}

func WithTLSConfig(tlsConfig *tls.Config) ServerOptionFunc {
	return func(s *Server) error {
		s.tlsConfig = tlsConfig
		return nil
	}
}

func WithTimeout(timeout time.Duration) ServerOptionFunc {
	return func(s *Server) error {
		s.timeout = timeout
		return nil
	}
}

func WithServerLogger(logger *slog.Logger) ServerOptionFunc {
	return func(s *Server) error {
		s.logger = logging.OrDiscard(logger)
		return nil
	}
}

// NewServer prepares listeners on bind and, unless empty, an implicit TLS
// listener on bindImplicitTLS. A nil sink discards accepted messages.
func NewServer(bind, bindImplicitTLS string, validator *Validator, sink Sink, options ...ServerOptionFunc) (*Server, error) {
	if validator == nil {
		return nil, errors.New("no validator given")
	}
	if sink == nil {
		sink = DiscardSink
	}
	s := &Server{
		addr:         bind,
		implicitAddr: bindImplicitTLS,
		timeout:      5 * time.Minute,
		logger:       logging.Discard(),
		validator:    validator,
		sink:         sink,
		readyChan:    make(chan struct{}),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	if s.implicitAddr != "" && s.tlsConfig == nil {
		return nil, errors.New("implicit TLS listener requires a TLS configuration")
	}
	s.server = newListenerSlot(s.newSmtpdServerProto(s.addr, false))
	if s.implicitAddr != "" {
		s.serverImplicit = newListenerSlot(s.newSmtpdServerProto(s.implicitAddr, true))
	}
	return s, nil
}

func (s *Server) newSmtpdServerProto(addr string, tlsListener bool) *smtpd.Server {
	hostname := s.hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	return &smtpd.Server{
		Appname:     appName,
		Hostname:    hostname,
		TLSConfig:   s.tlsConfig,
		Addr:        addr,
		TLSListener: tlsListener,
		Timeout:     s.timeout,
	}
}

// acceptable reports whether the envelope may proceed; the null reverse-path is allowed.
func (s *Server) acceptable(logger *slog.Logger, from string, to string) bool {
	if from != "" && !s.validator.Validate(from) {
		logger.Info("rejected malformed reverse-path")
		return false
	}
	if !s.validator.Validate(to) {
		logger.Info("rejected malformed forward-path")
		return false
	}
	return true
}

func (s *Server) rcptHandler(origin net.Addr, from string, to string) bool {
	logger := s.logger.With(slog.String("origin", origin.String()), slog.String("from", from), slog.String("to", to))
	return s.acceptable(logger, from, to)
}

func (s *Server) handler(ctx context.Context, origin net.Addr, from string, to []string, data []byte) error {
	logger := s.logger.With(slog.String("origin", origin.String()), slog.String("from", from), slog.Any("to", to), slog.Int("size", len(data)))
	err := s.sink(ctx, origin, from, to, data)
	if err != nil {
		logger.Error("failed to handle mail", slog.Any("error", err))
		return err
	}
	logger.Debug("accepted mail")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	eg, innerCtx := errgroup.WithContext(ctx)
	if s.server.Valid() && s.server.l != nil {
		s.server.l.Close()
		eg.Go(func() error { return s.server.s.Shutdown(innerCtx) })
	}
	if s.serverImplicit.Valid() && s.serverImplicit.l != nil {
		s.serverImplicit.l.Close()
		eg.Go(func() error { return s.serverImplicit.s.Shutdown(innerCtx) })
	}
	return eg.Wait()
}

func (s *Server) listenAndServe(ctx context.Context, slot *listenerSlot) error {
	ln, err := net.Listen("tcp", slot.s.Addr)
	if err != nil {
		return err
	}
	context.AfterFunc(ctx, func() { ln.Close() })
	if slot.s.TLSListener {
		ln = tls.NewListener(ln, slot.s.TLSConfig)
	}
	slot.s.Handler = func(origin net.Addr, from string, to []string, data []byte) error {
		return s.handler(ctx, origin, from, to, data)
	}
	slot.s.HandlerRcpt = s.rcptHandler
	slot.setListener(ln)
	return slot.s.Serve(ln)
}

// Ready is closed once every listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.readyChan
}

// Addr returns the bound address of the plain listener, or nil before Ready.
func (s *Server) Addr() net.Addr {
	if s.server.l == nil {
		return nil
	}
	return s.server.l.Addr()
}

func (s *Server) Serve(ctx context.Context) error {
	eg, innerCtx := errgroup.WithContext(ctx)
	readyChans := make([]<-chan *listenerSlot, 0, 2)
	for _, slot := range []*listenerSlot{&s.server, &s.serverImplicit} {
		if !slot.Valid() {
			continue
		}
		eg.Go(func() error {
			err := s.listenAndServe(innerCtx, slot)
			if err != nil && errors.Is(err, net.ErrClosed) {
				err = nil
			}
			return err
		})
		readyChans = append(readyChans, slot.Ready())
	}
	for _, readyChan := range readyChans {
		select {
		case <-innerCtx.Done():
			// a listener failed to bind or the caller gave up
			close(s.readyChan)
			return eg.Wait()
		case slot := <-readyChan:
			s.logger.Info("listening", slog.String("addr", slot.l.Addr().String()), slog.Bool("implicit_tls", slot.s.TLSListener))
		}
	}
	close(s.readyChan)
	return eg.Wait()
}
