// Package chassis serves the phonocoach API over TLS, HTTP/1.1 and
// HTTP/2 on TCP and HTTP/3 on UDP, both on the listen port. TCP
// responses advertise HTTP/3 through Alt-Svc. Without cert files the
// server presents a self-signed certificate for the listen host.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// ALPNHTTP3 is the only protocol accepted on the QUIC listener.
const ALPNHTTP3 = "h3"

// Server runs the TCP and QUIC listeners for one handler.
type Server struct {
	addr      string
	logger    *slog.Logger
	tlsCfg    *tls.Config
	handler   http.Handler
	h3Server  *http3.Server
	tcpServer *http.Server
	quicLn    *quic.Listener
	mu        sync.Mutex
}

// Config holds configuration for the chassis server.
type Config struct {
	Addr     string      // Listen address (e.g. ":8443"), TCP and UDP
	TLS      *tls.Config // nil: CertFile/KeyFile, else self-signed
	CertFile string
	KeyFile  string
	Handler  http.Handler
	Logger   *slog.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Handler == nil {
		return nil, errors.New("chassis: nil handler")
	}

	tlsCfg, err := tlsConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:    cfg.Addr,
		logger:  cfg.Logger,
		tlsCfg:  tlsCfg,
		handler: cfg.Handler,
	}, nil
}

// securityHeaders adds the headers a JSON API should always send.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000")
		next.ServeHTTP(w, r)
	})
}

// altSvcMiddleware advertises HTTP/3 on the same port.
func altSvcMiddleware(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "443"
	}
	altSvc := fmt.Sprintf(`h3=":%s"; ma=86400`, port)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", altSvc)
		next.ServeHTTP(w, r)
	})
}

// Start launches both listeners and blocks until ctx is cancelled or a
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()

	handler := securityHeaders(altSvcMiddleware(s.addr, s.handler))

	tcpTLS := s.tlsCfg.Clone()
	tcpTLS.NextProtos = []string{"h2", "http/1.1"}
	s.tcpServer = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		TLSConfig:         tcpTLS,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quicTLS := s.tlsCfg.Clone()
	quicTLS.NextProtos = []string{ALPNHTTP3}
	ln, err := quic.ListenAddr(s.addr, quicTLS, &quic.Config{
		MaxIdleTimeout:  60 * time.Second,
		KeepAlivePeriod: 20 * time.Second,
	})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("QUIC listen: %w", err)
	}
	s.quicLn = ln
	s.h3Server = &http3.Server{Handler: securityHeaders(s.handler)}

	s.mu.Unlock()

	s.logger.Info("chassis started", "addr", s.addr,
		"tcp", "HTTP/1.1+HTTP/2 (TLS)", "udp", "HTTP/3 (QUIC)")

	errCh := make(chan error, 2)
	go func() {
		tcpLn, err := tls.Listen("tcp", s.addr, tcpTLS)
		if err != nil {
			errCh <- fmt.Errorf("TCP listen: %w", err)
			return
		}
		if err := s.tcpServer.Serve(tcpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()

	go func() {
		for {
			conn, err := ln.Accept(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				errCh <- fmt.Errorf("QUIC accept: %w", err)
				return
			}
			if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPNHTTP3 {
				s.logger.Warn("unknown ALPN, closing", "alpn", alpn, "remote", conn.RemoteAddr())
				conn.CloseWithError(quic.ApplicationErrorCode(0x11), "unsupported ALPN: "+alpn)
				continue
			}
			go func() {
				if err := s.h3Server.ServeQUICConn(conn); err != nil {
					s.logger.Debug("HTTP/3 conn done", "remote", conn.RemoteAddr(), "error", err)
				}
			}()
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.tcpServer != nil {
		errs = append(errs, s.tcpServer.Shutdown(ctx))
	}
	if s.quicLn != nil {
		errs = append(errs, s.quicLn.Close())
	}
	if s.h3Server != nil {
		errs = append(errs, s.h3Server.Close())
	}
	s.logger.Info("chassis stopped")
	return errors.Join(errs...)
}
