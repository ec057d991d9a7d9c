package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := New(Config{Retries: 3, Backoff: time.Millisecond})
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "payload" {
		t.Errorf("body = %q", body)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{Retries: 3})
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (404 is not retryable)", got)
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := New(Config{})
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatal(err)
	}
	if gotUA != "taxingest/1.0" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Last-Modified", "Mon, 18 Aug 2025 00:00:00 GMT")
	}))
	defer srv.Close()

	c := New(Config{})
	h, err := c.Head(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if h.Get("Last-Modified") == "" {
		t.Error("missing Last-Modified header")
	}
}

func TestDiscoverUSCRelease(t *testing.T) {
	page := `<html><body>
<a href="releasepoints/us/pl/119/36/xml_usc26@119-36.zip">Title 26 XML</a>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/download.shtml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	c := New(Config{USCBase: srv.URL})
	rel, err := c.DiscoverUSCRelease(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rel.Version != "119-36" {
		t.Errorf("version = %q", rel.Version)
	}
	want := srv.URL + "/download/releasepoints/us/pl/119/36/xml_usc26@119-36.zip"
	if rel.URL != want {
		t.Errorf("url = %q, want %q", rel.URL, want)
	}
}

func TestDiscoverUSCReleaseMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>no links here</html>"))
	}))
	defer srv.Close()

	c := New(Config{USCBase: srv.URL})
	if _, err := c.DiscoverUSCRelease(context.Background()); err == nil {
		t.Fatal("expected error for page without release point")
	}
}

func TestDiscoverECFRVersion(t *testing.T) {
	body := `{"titles":[{"number":25,"latest_issue_date":"2025-01-01"},{"number":26,"latest_issue_date":"2025-08-15"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/versioner/v1/titles.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(Config{ECFRBase: srv.URL})
	date, err := c.DiscoverECFRVersion(context.Background(), 26)
	if err != nil {
		t.Fatal(err)
	}
	if date != "2025-08-15" {
		t.Errorf("date = %q", date)
	}

	if _, err := c.DiscoverECFRVersion(context.Background(), 99); err == nil {
		t.Error("expected error for unknown title")
	}
}

func TestECFRXMLURL(t *testing.T) {
	c := New(Config{ECFRBase: "https://example.gov"})
	want := "https://example.gov/api/versioner/v1/full/2025-08-15/title-26.xml"
	if got := c.ECFRXMLURL("2025-08-15", 26); got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write([]byte(content))
	}
	zw.Close()
	return buf.Bytes()
}

func TestXMLFromZip(t *testing.T) {
	data := zipWith(t, map[string]string{
		"readme.txt": "not this",
		"usc26.xml":  "<uscDoc/>",
	})
	xml, err := XMLFromZip(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(xml) != "<uscDoc/>" {
		t.Errorf("xml = %q", xml)
	}
}

func TestXMLFromZipFallback(t *testing.T) {
	data := zipWith(t, map[string]string{"title.xml": "<doc/>"})
	xml, err := XMLFromZip(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(xml) != "<doc/>" {
		t.Errorf("xml = %q", xml)
	}
}

func TestXMLFromZipErrors(t *testing.T) {
	if _, err := XMLFromZip([]byte("not a zip")); err == nil {
		t.Error("expected error for non-zip data")
	}
	data := zipWith(t, map[string]string{"only.txt": "text"})
	if _, err := XMLFromZip(data); err == nil {
		t.Error("expected error for zip without xml")
	}
}
