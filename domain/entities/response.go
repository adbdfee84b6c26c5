package entities

import "net/http"

// Request is an out-of-band API call made on behalf of an actor
type Request struct {
	Method string      `json:"method"`
	Path   string      `json:"path"`
	Body   interface{} `json:"body,omitempty"`
}

// Response is what the API client hands back for a Request
type Response struct {
	Status int         `json:"status"`
	Header http.Header `json:"-"`
	Body   []byte      `json:"body"`
}
