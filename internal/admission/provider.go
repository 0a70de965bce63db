package admission

import (
	"context"
	"strings"
)

// WindowCounter counts events per key over a sliding window. Count records
// the event and returns how many events the key has accumulated inside the
// window, including the one just recorded.
type WindowCounter interface {
	Count(ctx context.Context, key string, policy Policy) (int, error)
}

// botAgentMarkers are user-agent substrings classified as automated traffic.
var botAgentMarkers = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl/",
	"wget/",
	"python-requests",
	"headless",
}

// shieldPathMarkers are request-path fragments rejected by the security
// shield regardless of quota.
var shieldPathMarkers = []string{
	"../",
	"/.env",
	"/.git",
	"<script",
	"union select",
}

// Provider is the canonical decision provider: bot classification first,
// shield checks second, sliding-window quota last.
type Provider struct {
	counter WindowCounter
}

// NewProvider builds a provider on the given window counter.
func NewProvider(counter WindowCounter) *Provider {
	return &Provider{counter: counter}
}

// Decide implements DecisionProvider.
func (p *Provider) Decide(ctx context.Context, req Request, policy Policy) (Decision, error) {
	if isBot(req.UserAgent) {
		return Deny(DenyBot), nil
	}
	if isShielded(req.Path) {
		return Deny(DenyShield), nil
	}

	count, err := p.counter.Count(ctx, req.Key(), policy)
	if err != nil {
		return Decision{}, err
	}
	if count > policy.Capacity {
		return Deny(DenyRateLimit), nil
	}
	return Allow, nil
}

func isBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	agent := strings.ToLower(userAgent)
	for _, marker := range botAgentMarkers {
		if strings.Contains(agent, marker) {
			return true
		}
	}
	return false
}

func isShielded(path string) bool {
	lowered := strings.ToLower(path)
	for _, marker := range shieldPathMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
