package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const TRACE_FILE = "temp_secrets"

// FileTracer сохраняет ответ OAuth эндпоинта в файл для отладки.
// access_token в сохранённом ответе маскируется.
type FileTracer struct {
	Path string
}

func (tracer FileTracer) tracePath() string {
	if strings.TrimSpace(tracer.Path) == "" {
		return TRACE_FILE
	}
	return tracer.Path
}

// TraceAuthResponse перезаписывает файл трассировки последним ответом.
func (tracer FileTracer) TraceAuthResponse(status int, body []byte) error {
	path := tracer.tracePath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("trace auth response: create dir: %w", err)
	}

	data, err := json.MarshalIndent(traceRecord{Status: status, Body: redactBody(body)}, "", "    ")
	if err != nil {
		return fmt.Errorf("trace auth response: encode json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("trace auth response: write file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("trace auth response: chmod file: %w", err)
	}

	return nil
}

type traceRecord struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

func redactBody(body []byte) json.RawMessage {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		quoted, _ := json.Marshal(string(body))
		return quoted
	}

	if access, ok := doc["access_token"].(string); ok {
		doc["access_token"] = Redact(access)
	}
	if _, ok := doc["refresh_token"]; ok {
		doc["refresh_token"] = "***"
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	return out
}
