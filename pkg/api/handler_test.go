package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/ipa"
	"github.com/hazyhaar/phonocoach/pkg/observe"
	"github.com/hazyhaar/phonocoach/pkg/pronounce"
)

type testEnv struct {
	srv    *httptest.Server
	eps    *Endpoints
	reader *sdkmetric.ManualReader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	reg, err := dict.NewRegistry("")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	svc := pronounce.New(ipa.NewEngine(reg.ForLocale("en")))
	eps := NewEndpoints(Deps{Service: svc, Registry: reg, Metrics: m})
	srv := httptest.NewServer(NewRouter(eps, reg, m))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, eps: eps, reader: reader}
}

func (e *testEnv) post(t *testing.T, path, body string, header ...string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return do(t, req)
}

func (e *testEnv) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestDiff(t *testing.T) {
	env := newTestEnv(t)
	code, out := env.post(t, "/v1/diff", `{"target":"I go home","transcript":"I go to home"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
	tokens := out["tokens"].([]any)
	if len(tokens) != 4 {
		t.Fatalf("tokens = %v", tokens)
	}
	extra := tokens[2].(map[string]any)
	if extra["status"] != "extra" || extra["actual"] != "to" {
		t.Errorf("tokens[2] = %v", extra)
	}
	labels := out["labels"]
	if want := []any{"I", "go", "+to", "home"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestEvaluate_RecordsMetrics(t *testing.T) {
	env := newTestEnv(t)
	code, out := env.post(t, "/v1/evaluate", `{"target":"Nice to meet you","transcript":"nice to eat you"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
	acc := out["accuracy"].(map[string]any)
	if acc["matched"] != float64(3) || acc["expected"] != float64(4) {
		t.Errorf("accuracy = %v", acc)
	}
	if out["passed"] != false {
		t.Errorf("passed = %v", out["passed"])
	}

	var rm metricdata.ResourceMetrics
	if err := env.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var evaluations int64
	var endpointCalls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "phonocoach.evaluations":
					evaluations += dp.Value
				case "phonocoach.endpoint.calls":
					endpointCalls += dp.Value
				}
			}
		}
	}
	if evaluations != 1 {
		t.Errorf("evaluations = %d, want 1", evaluations)
	}
	if endpointCalls != 1 {
		t.Errorf("endpoint calls = %d, want 1", endpointCalls)
	}
}

func TestEvaluate_EmptyTarget(t *testing.T) {
	env := newTestEnv(t)
	code, out := env.post(t, "/v1/evaluate", `{"target":"","transcript":"hello"}`)
	if code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %v", code, out)
	}
}

func TestAccuracy(t *testing.T) {
	env := newTestEnv(t)
	body := `{"tokens":[
		{"status":"ok","expected":"hi","actual":"hi"},
		{"status":"extra","actual":"um"},
		{"status":"missing","expected":"there"}
	]}`
	code, out := env.post(t, "/v1/accuracy", body)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
	if out["matched"] != float64(1) || out["expected"] != float64(2) || out["accuracy"] != 0.5 {
		t.Errorf("out = %v", out)
	}
	if out["threshold"] != 0.8 {
		t.Errorf("threshold = %v", out["threshold"])
	}

	code, _ = env.post(t, "/v1/accuracy", `{"tokens":[{"status":"great"}]}`)
	if code != http.StatusBadRequest {
		t.Errorf("unknown status: code = %d", code)
	}
	code, _ = env.post(t, "/v1/accuracy", `{}`)
	if code != http.StatusBadRequest {
		t.Errorf("missing tokens: code = %d", code)
	}
}

func TestIPA(t *testing.T) {
	env := newTestEnv(t)
	code, out := env.post(t, "/v1/ipa", `{"text":"Ciao, come stai?","locale":"it"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
	if out["ipa"] != "/tʃao kome stai/" {
		t.Errorf("ipa = %v", out["ipa"])
	}
	if want := []any{"e", "tʃ"}; !reflect.DeepEqual(out["symbols"], want) {
		t.Errorf("symbols = %v, want %v", out["symbols"], want)
	}

	_, out = env.post(t, "/v1/ipa", `{"text":"Bonjour","locale":"fr"}`)
	if out["ipa"] != "" || out["supported"] != false {
		t.Errorf("unsupported locale = %v", out)
	}
}

func TestIPA_AcceptLanguage(t *testing.T) {
	env := newTestEnv(t)
	_, out := env.post(t, "/v1/ipa", `{"text":"Ciao, come stai?"}`, "Accept-Language", "it-IT,it;q=0.9,en;q=0.5")
	if out["ipa"] != "/tʃao kome stai/" {
		t.Errorf("ipa = %v", out["ipa"])
	}
	if out["locale"] != "it-IT" {
		t.Errorf("locale = %v", out["locale"])
	}

	_, out = env.post(t, "/v1/ipa", `{"text":"hello"}`)
	if out["locale"] != "en" || out["supported"] != true {
		t.Errorf("default locale = %v", out)
	}

	_, out = env.post(t, "/v1/ipa", `{"text":"hello"}`, "Accept-Language", "fr-FR, en;q=0.8")
	if out["locale"] != "en" || out["supported"] != true || out["ipa"] == "" {
		t.Errorf("fr-FR with en fallback = %v", out)
	}
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		header, want string
	}{
		{"it-IT,it;q=0.9,en;q=0.5", "it-IT"},
		{"fr-FR, en;q=0.8", "en"},
		{"fr-CH, fr;q=0.9, it;q=0.7, en;q=0.5", "it"},
		{"en-GB", "en-GB"},
		{"de-DE", ""},
		{";;;", ""},
	}
	for _, tt := range tests {
		if got := matchLocale(tt.header); got != tt.want {
			t.Errorf("matchLocale(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestSymbols(t *testing.T) {
	env := newTestEnv(t)
	code, out := env.post(t, "/v1/symbols", `{"ipa":"/tʃeə/"}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, out)
	}
	if want := []any{"e", "tʃ", "ə"}; !reflect.DeepEqual(out["symbols"], want) {
		t.Errorf("symbols = %v, want %v", out["symbols"], want)
	}
	rows := out["guide"].([]any)
	if len(rows) != len(ipa.DefaultGuide().Rows()) {
		t.Fatalf("guide rows = %d", len(rows))
	}
	hot := 0
	for _, r := range rows {
		row := r.(map[string]any)
		if row["hot"] == true {
			hot++
			if row["key"] == "ʃ" {
				t.Error("ʃ flagged although only tʃ is present")
			}
		}
	}
	if hot != 3 {
		t.Errorf("hot rows = %d, want 3", hot)
	}
}

func TestAnswer(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		body string
		want bool
	}{
		{`{"guess":"  Café! ","answer":"cafe"}`, true},
		{`{"guess":"thirty","answer":"thirteen"}`, false},
	}
	for _, tt := range tests {
		_, out := env.post(t, "/v1/answer", tt.body)
		if out["correct"] != tt.want {
			t.Errorf("%s: correct = %v, want %v", tt.body, out["correct"], tt.want)
		}
	}
}

func TestGuideDictsHealth(t *testing.T) {
	env := newTestEnv(t)

	code, out := env.get(t, "/v1/guide")
	if code != http.StatusOK || len(out["rows"].([]any)) != 22 {
		t.Errorf("guide: code = %d, rows = %v", code, out["rows"])
	}

	code, out = env.get(t, "/v1/dicts")
	if code != http.StatusOK {
		t.Fatalf("dicts: code = %d", code)
	}
	dicts := out["dictionaries"].([]any)
	if len(dicts) != 1 || dicts[0].(map[string]any)["id"] != dict.CoreID {
		t.Errorf("dicts = %v", dicts)
	}

	code, out = env.get(t, "/v1/health")
	if code != http.StatusOK || out["status"] != "ok" || out["dictionaries"] != float64(1) {
		t.Errorf("health: code = %d, body = %v", code, out)
	}
}

func TestBadRequests(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.post(t, "/v1/diff", `{not json`)
	if code != http.StatusBadRequest {
		t.Errorf("invalid JSON: code = %d", code)
	}

	long := strings.Repeat("a ", maxTextRunes)
	code, _ = env.post(t, "/v1/diff", `{"target":"`+long+`","transcript":""}`)
	if code != http.StatusBadRequest {
		t.Errorf("long target: code = %d", code)
	}

	huge := bytes.Repeat([]byte("a"), maxBodyBytes+1)
	code, _ = env.post(t, "/v1/diff", `{"target":"`+string(huge)+`"}`)
	if code != http.StatusRequestEntityTooLarge {
		t.Errorf("huge body: code = %d", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req, _ := http.NewRequest(http.MethodOptions, env.srv.URL+"/v1/diff", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
