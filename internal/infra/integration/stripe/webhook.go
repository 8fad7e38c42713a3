package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

const DefaultTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing or malformed Stripe-Signature header")
	ErrInvalidSignature = errors.New("no matching webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// ConstructEvent verifies header against payload and decodes the event.
// The header looks like "t=<unix>,v1=<hex hmac>[,v1=...]"; the HMAC-SHA256
// covers "<t>.<payload>".
func ConstructEvent(payload []byte, header, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	if err := VerifySignature(payload, header, secret, now, tolerance); err != nil {
		return nil, err
	}
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

func VerifySignature(payload []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	var (
		ts         int64
		signatures [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrMissingSignature
			}
			ts = n
		case "v1":
			sig, err := hex.DecodeString(v)
			if err == nil {
				signatures = append(signatures, sig)
			}
		}
	}
	if ts == 0 || len(signatures) == 0 {
		return ErrMissingSignature
	}

	expected := Sign(payload, secret, ts)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			matched = true
			break
		}
	}
	if !matched {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return ErrStaleTimestamp
		}
	}
	return nil
}

// Sign returns the raw v1 signature for payload at timestamp ts.
func Sign(payload []byte, secret string, ts int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeader builds a header value, mostly for tests and local tooling.
func SignatureHeader(payload []byte, secret string, ts time.Time) string {
	return "t=" + strconv.FormatInt(ts.Unix(), 10) + ",v1=" + hex.EncodeToString(Sign(payload, secret, ts.Unix()))
}
