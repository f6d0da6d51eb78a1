// Package repurposetest provides an in-process fake of the repurpose service.
package repurposetest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one request received by the fake.
type Call struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

// Reply is a canned response.
type Reply struct {
	Status int
	Body   string
}

// Server records every request and answers from a per-path reply table.
// Paths without a reply get 404 {"detail":"Not Found"}.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []Call
	replies map[string]Reply
}

// NewServer starts a fake with the service's happy-path replies and closes it
// when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		replies: map[string]Reply{
			"/login":     {Status: http.StatusOK, Body: `{"access_token":"T1","token_type":"bearer"}`},
			"/signup":    {Status: http.StatusOK, Body: `{"message":"Signup successful","email":"a@b.com","plan":"free"}`},
			"/repurpose": {Status: http.StatusOK, Body: `{"posts":{"twitter":"Hello world #t"}}`},
			"/upgrade":   {Status: http.StatusOK, Body: `{"message":"Upgraded to Pro successfully"}`},
			"/health":    {Status: http.StatusOK, Body: `{"status":"ok"}`},
		},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	tb.Cleanup(s.Close)
	return s
}

// Reply sets the response for path.
func (s *Server) Reply(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = Reply{Status: status, Body: body}
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests received for path.
func (s *Server) CallsTo(path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	reply, ok := s.replies[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		reply = Reply{Status: http.StatusNotFound, Body: `{"detail":"Not Found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}
