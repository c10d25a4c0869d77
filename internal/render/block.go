package render

import (
	"net/http"
	"strings"
)

// BlockKind describes the kind of anti-bot page detected.
type BlockKind string

const (
	BlockNone       BlockKind = ""
	BlockCloudflare BlockKind = "cloudflare"
	BlockCaptcha    BlockKind = "captcha"
	BlockRateLimit  BlockKind = "rate_limit"
)

// BlockedError reports that the site served an anti-bot or rate-limit page
// instead of content.
type BlockedError struct {
	Kind BlockKind
}

func (e *BlockedError) Error() string {
	return "blocked by " + string(e.Kind) + " page"
}

const interstitialMaxBytes = 20000

// DetectBlock checks a response for signs of anti-bot protection. status and
// header may be zero values when only the rendered body is known.
func DetectBlock(status int, header http.Header, body string) BlockKind {
	if status == http.StatusTooManyRequests {
		return BlockRateLimit
	}

	// Cloudflare: 403/503 with cf-* headers.
	if (status == http.StatusForbidden || status == http.StatusServiceUnavailable) && header != nil {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" || header.Get("server") == "cloudflare" {
			return BlockCloudflare
		}
	}

	// Challenge and captcha interstitials are small. Full pages routinely
	// mention "cloudflare" (cdnjs) or "challenge" (event names), so body
	// markers only count below interstitialMaxBytes.
	if len(body) >= interstitialMaxBytes {
		return BlockNone
	}

	lower := strings.ToLower(body)

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "/cdn-cgi/challenge-platform/") {
		return BlockCloudflare
	}

	if strings.Contains(lower, "captcha") {
		return BlockCaptcha
	}

	// Small "slow down" pages served with 200.
	if len(body) < 4000 && (strings.Contains(lower, "rate limited") || strings.Contains(lower, "too many requests")) {
		return BlockRateLimit
	}

	return BlockNone
}
