// True randomness via random.org for games that want dice nobody can
// predict. Falls back to crypto/rand when the API is unavailable.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Oracle is a pooled random.org client implementing Source. A nil Oracle is
// valid and serves crypto/rand floats.
type Oracle struct {
	apiKey string
	client *http.Client

	mu   sync.Mutex
	pool []float64
}

// NewOracle creates a random.org-backed Source. Returns nil if apiKey is
// empty; a nil Oracle still satisfies Source via the crypto fallback.
func NewOracle(apiKey string) *Oracle {
	if apiKey == "" {
		return nil
	}
	return &Oracle{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (o *Oracle) Float64() float64 {
	if o == nil {
		return cryptoFloat()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.pool) < 10 {
		o.refill()
	}
	if len(o.pool) == 0 {
		return cryptoFloat()
	}

	v := o.pool[0]
	o.pool = o.pool[1:]
	return v
}

func (o *Oracle) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        o.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := o.client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}
	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	o.pool = append(o.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}

// cryptoFloat generates a uniform float64 in [0, 1) from crypto/rand.
func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 is a safe neutral default.
		return 0.5
	}
	// 53 bits for a uniform float64.
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
