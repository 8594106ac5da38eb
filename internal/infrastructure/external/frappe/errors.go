package frappe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/garyjia/erp-gateway/internal/application/port"
)

// RemoteError is a non-2xx response of the ERP server
type RemoteError struct {
	StatusCode int
	ExcType    string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("erp %d %s: %s", e.StatusCode, e.ExcType, e.Message)
	}
	return fmt.Sprintf("erp %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the server exception onto the port sentinels
func (e *RemoteError) Unwrap() error {
	switch {
	case e.ExcType == "DoesNotExistError" || e.StatusCode == http.StatusNotFound:
		return port.ErrDocumentNotFound
	case e.ExcType == "TimestampMismatchError":
		return port.ErrDocumentModified
	case e.rejectedCredentials():
		return port.ErrRemoteUnavailable
	case e.StatusCode >= 500:
		return port.ErrRemoteUnavailable
	default:
		return port.ErrRemoteValidation
	}
}

// rejectedCredentials reports whether the server refused the gateway's API key
func (e *RemoteError) rejectedCredentials() bool {
	switch e.ExcType {
	case "AuthenticationError", "PermissionError", "CSRFTokenError":
		return true
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorBody is the error payload the ERP server sends
type errorBody struct {
	ExcType        string          `json:"exc_type"`
	Exception      string          `json:"exception"`
	ServerMessages string          `json:"_server_messages"`
	Message        json.RawMessage `json:"message"`
}

// parseRemoteError builds a RemoteError from a failed response body
func parseRemoteError(statusCode int, body []byte) *RemoteError {
	remoteErr := &RemoteError{StatusCode: statusCode}

	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		remoteErr.Message = strings.TrimSpace(string(body))
		if remoteErr.Message == "" || len(remoteErr.Message) > 500 {
			remoteErr.Message = http.StatusText(statusCode)
		}
		return remoteErr
	}

	remoteErr.ExcType = payload.ExcType
	remoteErr.Message = firstServerMessage(payload.ServerMessages)
	if remoteErr.Message == "" && payload.Exception != "" {
		remoteErr.Message = payload.Exception
		if i := strings.Index(payload.Exception, ": "); i >= 0 {
			remoteErr.Message = payload.Exception[i+2:]
		}
	}
	if remoteErr.Message == "" {
		var msg string
		if err := json.Unmarshal(payload.Message, &msg); err == nil {
			remoteErr.Message = msg
		}
	}
	if remoteErr.Message == "" {
		remoteErr.Message = http.StatusText(statusCode)
	}
	return remoteErr
}

// firstServerMessage decodes _server_messages, a JSON array of JSON strings
func firstServerMessage(raw string) string {
	if raw == "" {
		return ""
	}
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil || len(encoded) == 0 {
		return ""
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(encoded[0]), &msg); err != nil {
		return encoded[0]
	}
	return msg.Message
}
