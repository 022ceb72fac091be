// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package tokens estimates and formats token counts for digest budgeting.
// The canonical counter uses the o200k_base byte-pair encoding; when that
// is unavailable or disabled, a character-based estimate takes over.
package tokens

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"k8s.io/klog/v2"
)

// EncodingName is the byte-pair encoding the canonical counter loads.
const EncodingName = "o200k_base"

// DisableEnv truthy forces the character estimate and skips loading the
// encoding entirely.
const DisableEnv = "GIT_INGEST_DISABLE_TOKEN_COUNTING"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Counter counts the tokens of a text. Implementations must be safe for
// concurrent use.
//
//counterfeiter:generate . Counter
type Counter interface {
	Count(text string) int
}

var (
	encMu     sync.Mutex
	encCached *tiktoken.Tiktoken
	encErr    error
	encLoaded bool
)

func encoding() (*tiktoken.Tiktoken, error) {
	encMu.Lock()
	defer encMu.Unlock()
	if !encLoaded {
		encCached, encErr = tiktoken.GetEncoding(EncodingName)
		encLoaded = true
	}
	return encCached, encErr
}

// ClearEncodingCache drops the process-wide encoder so memory-sensitive
// hosts can reclaim it. The next counter construction reloads it.
func ClearEncodingCache() {
	encMu.Lock()
	defer encMu.Unlock()
	encCached, encErr, encLoaded = nil, nil, false
}

// Estimator approximates tokens as ceil(len(text) * 1.3). It backs the
// counter whenever the encoding cannot be used.
type Estimator struct{}

// Count implements Counter.
func (Estimator) Count(text string) int {
	return int(math.Ceil(float64(len(text)) * 1.3))
}

type bpeCounter struct {
	enc *tiktoken.Tiktoken
}

func (c bpeCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// NewCounter returns the canonical counter. Loading failures degrade to
// the estimator with a warning; they never abort the job.
func NewCounter() Counter {
	if Disabled() {
		return Estimator{}
	}
	enc, err := encoding()
	if err != nil {
		klog.Warningf("token encoding %s unavailable, falling back to character estimate: %v", EncodingName, err)
		return Estimator{}
	}
	return bpeCounter{enc: enc}
}

// IsEstimate reports whether the counter produces the character-based
// approximation instead of true byte-pair counts.
func IsEstimate(c Counter) bool {
	_, ok := c.(Estimator)
	return ok
}

// Disabled reports whether token counting is switched off by environment.
func Disabled() bool {
	switch strings.ToLower(os.Getenv(DisableEnv)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Format renders a token count for humans: plain below one thousand, then
// one decimal with a k or M suffix.
func Format(n int) string {
	switch {
	case n < 1_000:
		return strconv.Itoa(n)
	case n < 1_000_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
}
