// output.go parses the JSON envelope emitted by the engine with
// --output-format json.
package engine

import (
	"encoding/json"
	"fmt"
)

// Envelope holds the parsed result from one engine invocation.
type Envelope struct {
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
}

// rawEnvelope is the full JSON document returned by the engine.
type rawEnvelope struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
	NumTurns   int     `json:"num_turns"`
}

// ParseEnvelope parses the raw JSON bytes from the engine's stdout.
// Callers degrade to treating raw stdout as the result when this fails;
// a parse error here is therefore never fatal to a dispatch.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty engine output")
	}

	var rawOut rawEnvelope
	if err := json.Unmarshal(raw, &rawOut); err != nil {
		return nil, fmt.Errorf("parsing engine output: %w", err)
	}

	if rawOut.Type != "result" {
		return nil, fmt.Errorf("unexpected engine output type: %q (expected \"result\")", rawOut.Type)
	}

	return &Envelope{
		Result:     rawOut.Result,
		SessionID:  rawOut.SessionID,
		IsError:    rawOut.IsError,
		CostUSD:    rawOut.CostUSD,
		DurationMS: rawOut.DurationMS,
	}, nil
}
