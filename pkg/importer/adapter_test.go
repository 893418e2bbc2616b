package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/phonocoach/pkg/dict"
)

const utf8Source = `;;; test dictionary
hello HH AH0 L OW1
hello(2) HH EH0 L OW1
quokka K W AA1 K AH0 # marsupial
`

// latin1Source is CMU 0.7b style: upper-case keys, two-space separator,
// ISO-8859-1 bytes (0xC9 is É).
const latin1Source = ";;; # CMUdict  --  Major Version: 0.07\n" +
	"CAF\xc9  K AE0 F EY1\n" +
	"ZEBRA  Z IY1 B R AH0\n"

type failingAdapter struct{ fakeAdapter }

func (f *failingAdapter) Import(context.Context, string, string) (int, error) {
	return 0, errors.New("source gone")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cmudictServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cmudict.dict", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, utf8Source)
	})
	mux.HandleFunc("/cmudict-0.7b", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, latin1Source)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ";;; nothing here\n")
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRegisteredAdapters(t *testing.T) {
	var ids []string
	for _, a := range All() {
		ids = append(ids, a.ID())
	}
	if len(ids) != 2 || ids[0] != "cmudict-07b-en" || ids[1] != "cmudict-en" {
		t.Fatalf("adapters = %v", ids)
	}
	if _, err := Get("insee-prenoms-fr"); err == nil {
		t.Error("unknown adapter should fail")
	}
}

func TestCMUDictImport(t *testing.T) {
	ts := cmudictServer(t)
	out := t.TempDir()

	a, err := Get("cmudict-en")
	if err != nil {
		t.Fatal(err)
	}
	n, err := a.Import(context.Background(), ts.URL+"/cmudict.dict", out)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}

	m, err := dict.LoadManifest(filepath.Join(out, "cmudict-en", "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Locale != "en" || m.DataFile != "data.gob" || m.SourceURL != ts.URL+"/cmudict.dict" {
		t.Errorf("manifest = %+v", m)
	}
	if _, err := os.Stat(filepath.Join(out, "_download", "cmudict-en")); !os.IsNotExist(err) {
		t.Errorf("download dir left behind: %v", err)
	}

	d, err := dict.LoadDictionary(filepath.Join(out, "cmudict-en"))
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	phones, ok := d.Pronounce("Hello")
	if !ok || dict.FormatPhones(phones) != "HH AH0 L OW1" {
		t.Errorf("hello = %v, %v", phones, ok)
	}
}

func TestCMUDictImport_Empty(t *testing.T) {
	ts := cmudictServer(t)
	a, _ := Get("cmudict-en")
	if _, err := a.Import(context.Background(), ts.URL+"/empty", t.TempDir()); err == nil {
		t.Fatal("expected error for a source without pronunciations")
	}
}

func TestRunAll_EndToEnd(t *testing.T) {
	fastRetries(t)
	ts := cmudictServer(t)
	out := t.TempDir()
	sdb := tempSourceDB(t)

	broken := &failingAdapter{fakeAdapter{"broken", "broken-en", "broken", ts.URL + "/nope", "CC0"}}
	list := append(All(), broken)
	if err := sdb.Seed(list); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Point the real adapters at the test server.
	if err := sdb.SetURL("cmudict-en", ts.URL+"/cmudict.dict"); err != nil {
		t.Fatal(err)
	}
	if err := sdb.SetURL("cmudict-07b-en", ts.URL+"/cmudict-0.7b"); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), sdb, list, out, 2, discardLogger())
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	byID := map[string]Result{}
	for _, r := range results {
		byID[r.AdapterID] = r
	}
	if r := byID["cmudict-07b-en"]; r.Err != nil || r.Entries != 2 {
		t.Errorf("cmudict-07b-en = %+v", r)
	}
	if r := byID["cmudict-en"]; r.Err != nil || r.Entries != 2 {
		t.Errorf("cmudict-en = %+v", r)
	}
	if r := byID["broken"]; r.Err == nil {
		t.Error("broken adapter should report its error")
	}

	sources, err := sdb.ListSources()
	if err != nil {
		t.Fatal(err)
	}
	for _, src := range sources {
		if src.LastImport == nil {
			t.Errorf("%s: last_import not recorded", src.AdapterID)
		}
		if src.AdapterID == "broken" && (src.ImportError == nil || *src.ImportError != "source gone") {
			t.Errorf("broken: import_error = %v", src.ImportError)
		}
	}

	// The registry serves the imported dictionaries, the Latin-1 one transcoded.
	reg, err := dict.NewRegistry(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.DictCount() != 3 {
		t.Errorf("DictCount = %d, want 3", reg.DictCount())
	}
	phones, id, ok := reg.Lookup("en", "Café")
	if !ok || id != "cmudict-07b-en" || dict.FormatPhones(phones) != "K AE0 F EY1" {
		t.Errorf("Lookup(café) = %v, %q, %v", phones, id, ok)
	}
	if _, id, ok := reg.Lookup("en-US", "quokka"); !ok || id != "cmudict-en" {
		t.Errorf("Lookup(quokka) = %q, %v", id, ok)
	}
}
