package gemini

import (
	"context"
	"errors"
	"net"
	"strings"

	"google.golang.org/genai"
)

// FailureKind classifies a failed generation call for error mapping.
type FailureKind int

const (
	// KindService covers provider-side failures with no narrower class.
	KindService FailureKind = iota
	// KindQuota is a provider rate/quota limit.
	KindQuota
	// KindInvalidKey is a provider rejection of the credential.
	KindInvalidKey
	// KindTransport is a timeout or network failure before the provider
	// produced a classified answer.
	KindTransport
)

// Classify maps a generation error onto a FailureKind. Quota detection
// follows the provider's observed behavior: HTTP 429 or a message
// mentioning quota, in any case.
func Classify(err error) FailureKind {
	if err == nil {
		return KindService
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	// Quota wins over every other class: a 400-coded error whose message
	// mentions quota is still a quota failure.
	var apiErr *genai.APIError
	hasAPIErr := errors.As(err, &apiErr)
	if (hasAPIErr && apiErr.Code == 429) || strings.Contains(lower, "quota") || strings.Contains(msg, "429") {
		return KindQuota
	}

	if hasAPIErr {
		switch apiErr.Code {
		case 400, 401, 403:
			return KindInvalidKey
		}
	}
	if strings.Contains(msg, "API_KEY") || strings.Contains(lower, "api key") {
		return KindInvalidKey
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	if strings.Contains(msg, "Client.Timeout") || strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") {
		return KindTransport
	}

	return KindService
}
