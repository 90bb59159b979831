package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const landingPage = `<!doctype html>
<html><body>
<form action="/search" method="post">
<input type="hidden" name="__RequestVerificationToken" value="tok-123">
</form>
</body></html>`

func resultsPage(number string) string {
	return fmt.Sprintf(`<html><body><table>
<tr><th>Номер</th><th>ФИО</th><th>Пол</th><th>HI</th></tr>
<tr><td> %s </td><td><b>Абахов&nbsp;Олег</b></td><td>Муж.</td><td>15,2</td></tr>
</table></body></html>`, number)
}

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(landingPage))
		case "/search":
			if err := r.ParseForm(); err != nil {
				http.Error(w, "bad form", http.StatusBadRequest)
				return
			}
			if r.PostForm.Get("__RequestVerificationToken") != "tok-123" {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			number := r.PostForm.Get("number")
			if number == "RU000873" {
				_, _ = w.Write([]byte(resultsPage(number)))
				return
			}
			_, _ = w.Write([]byte(`<html><body><table></table></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return server, c
}

func TestClient_CredentialAndFind(t *testing.T) {
	t.Parallel()
	_, c := newTestServer(t)
	ctx := context.Background()

	cred, err := c.Credential(ctx)
	if err != nil {
		t.Fatalf("Credential returned error: %v", err)
	}
	if cred != "tok-123" {
		t.Fatalf("credential = %q, want tok-123", cred)
	}

	rec, ok, err := c.Find(ctx, cred, "RU000873")
	if err != nil || !ok {
		t.Fatalf("Find = %v, %v, %v", rec, ok, err)
	}
	want := Record{Number: "RU000873", Name: "Абахов Олег", Gender: "Муж.", HI: "15,2"}
	if rec != want {
		t.Fatalf("record = %+v, want %+v", rec, want)
	}

	// Zero matches is not an error.
	_, ok, err = c.Find(ctx, cred, "RU999999")
	if err != nil {
		t.Fatalf("Find(no match) returned error: %v", err)
	}
	if ok {
		t.Fatal("Find(no match) reported a record")
	}
}

func TestClient_MissingCredential(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>maintenance</body></html>`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Credential(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Credential error = %v, want ErrNoCredential", err)
	}
}

func TestClient_ServerErrorAndCancellation(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, _, err = c.Find(context.Background(), "tok", "RU000873")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Find error = %v, want status 500 error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Credential(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Credential error = %v, want context.Canceled", err)
	}
}

func TestParseBaseURL(t *testing.T) {
	t.Parallel()
	u, err := parseBaseURL("lookup.example.org/path?q=1")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "lookup.example.org" || u.Path != "" || u.RawQuery != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if _, err := parseBaseURL("  "); err == nil {
		t.Fatal("empty base url accepted")
	}
}
