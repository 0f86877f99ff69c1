package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	baseURLVar     = "BASE_URL"
	httpTimeoutVar = "HTTP_TIMEOUT_SECONDS"
)

type APIConfig interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetBaseURL returns the base URL of the works API, without a trailing
// slash (e.g. "https://beliy.example.com/works/api").
func (API) GetBaseURL() string {
	return strings.TrimRight(GetEnv(baseURLVar, "http://localhost:8000/works/api"), "/")
}

func (API) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(httpTimeoutVar, "30"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}
