package utils

import (
	"strings"

	"github.com/oshokin/exchange-logger/internal/version"
)

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

// UserAgentProvider supplies the User-Agent header of outgoing requests.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// SimpleUserAgentProvider returns the same User-Agent for every request.
type SimpleUserAgentProvider struct {
	// userAgent is the User-Agent string to return.
	userAgent string
}

// NewSimpleUserAgentProvider creates a provider for userAgent.
// A blank userAgent falls back to the tool name and version.
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = ToolUserAgent()
	}

	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}

// ToolUserAgent returns "exchange-logger/<version>".
func ToolUserAgent() string {
	return "exchange-logger/" + version.Short()
}
