package repurpose

import (
	"bytes"
	"encoding/json"
	"fmt"
)

//
// ────────────────────────────────────────────────
//   Auth
// ────────────────────────────────────────────────
//

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of POST /login. AccessToken is set on success,
// Detail on failure.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Detail      Detail `json:"detail"`
}

// SignupRequest is the payload for POST /signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is the success body of POST /signup.
type SignupResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Plan    string `json:"plan"`
	Detail  Detail `json:"detail"`
}

// UpgradeResponse is the body of POST /upgrade.
type UpgradeResponse struct {
	Message string `json:"message"`
	Detail  Detail `json:"detail"`
}

//
// ────────────────────────────────────────────────
//   Repurpose
// ────────────────────────────────────────────────
//

// RepurposeRequest is the payload for POST /repurpose.
type RepurposeRequest struct {
	Text        string   `json:"text"`
	Targets     []string `json:"targets"`
	NVariations int      `json:"n_variations,omitempty"`
}

// Result is an opaque JSON reply together with the status it arrived with.
type Result struct {
	StatusCode int
	Body       json.RawMessage
	Output     string // pretty-printed Body as shown to the user
}

//
// ────────────────────────────────────────────────
//   Errors
// ────────────────────────────────────────────────
//

// Detail is the service's error "detail" field. It is usually a string but
// request validation failures carry a list of objects instead.
type Detail struct {
	raw json.RawMessage
}

func (d *Detail) UnmarshalJSON(b []byte) error {
	d.raw = append(d.raw[:0], b...)
	return nil
}

func (d Detail) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// IsZero reports whether no detail was sent.
func (d Detail) IsZero() bool {
	return len(d.raw) == 0 || bytes.Equal(d.raw, []byte("null"))
}

// String returns a string detail verbatim and any other JSON value compacted.
func (d Detail) String() string {
	if d.IsZero() {
		return ""
	}
	var s string
	if err := json.Unmarshal(d.raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, d.raw); err != nil {
		return string(d.raw)
	}
	return buf.String()
}

// StatusError is returned for non-2xx replies on endpoints whose body has a
// known shape.
type StatusError struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("repurpose service returned %d: %s", e.StatusCode, e.Detail)
}
