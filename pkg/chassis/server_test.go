package chassis

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestSelfSignedCert(t *testing.T) {
	tests := []struct {
		hosts []string
		want  []string
	}{
		{nil, []string{"localhost", "127.0.0.1", "::1"}},
		{[]string{"coach.internal", "10.0.0.7"}, []string{"coach.internal", "10.0.0.7"}},
	}
	for _, tt := range tests {
		cert, err := SelfSignedCert(tt.hosts...)
		if err != nil {
			t.Fatalf("SelfSignedCert(%v): %v", tt.hosts, err)
		}
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			t.Fatalf("ParseCertificate: %v", err)
		}
		for _, h := range tt.want {
			if err := leaf.VerifyHostname(h); err != nil {
				t.Errorf("hosts %v: %s: %v", tt.hosts, h, err)
			}
		}
	}
}

func TestCertHosts(t *testing.T) {
	loop := []string{"localhost", "127.0.0.1", "::1"}
	tests := []struct {
		addr string
		want []string
	}{
		{":8443", loop},
		{"0.0.0.0:8443", loop},
		{"[::]:8443", loop},
		{"localhost:8443", loop},
		{"coach.example.org:443", append([]string{"coach.example.org"}, loop...)},
		{"192.168.1.20:8443", append([]string{"192.168.1.20"}, loop...)},
	}
	for _, tt := range tests {
		if got := certHosts(tt.addr); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("certHosts(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestNew_SelfSignedCoversListenHost(t *testing.T) {
	s, err := New(Config{Addr: "coach.example.org:8443", Handler: http.NotFoundHandler()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	leaf, err := x509.ParseCertificate(s.tlsCfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatal(err)
	}
	if err := leaf.VerifyHostname("coach.example.org"); err != nil {
		t.Errorf("listen host: %v", err)
	}
	if s.tlsCfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("MinVersion = %x", s.tlsCfg.MinVersion)
	}
}

func TestNew_DefaultsToDevCert(t *testing.T) {
	s, err := New(Config{Addr: ":8443", Handler: http.NotFoundHandler()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.tlsCfg.Certificates) != 1 {
		t.Errorf("certificates = %d", len(s.tlsCfg.Certificates))
	}

	if _, err := New(Config{Addr: ":8443"}); err == nil {
		t.Error("nil handler should be rejected")
	}
	if _, err := New(Config{Addr: ":8443", Handler: http.NotFoundHandler(), CertFile: "missing.pem", KeyFile: "missing.key"}); err == nil {
		t.Error("missing cert files should be rejected")
	}
}

func TestHeaders(t *testing.T) {
	h := securityHeaders(altSvcMiddleware("0.0.0.0:8443", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/health", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Alt-Svc"); got != `h3=":8443"; ma=86400` {
		t.Errorf("Alt-Svc = %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff")
	}
}
