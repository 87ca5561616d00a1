package httpclient

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/trackersync/pkg/shared/config"
)

// HclogAdapter adapts an hclog.Logger to be compatible with the resty log.Logger interface.
type HclogAdapter struct {
	logger hclog.Logger
}

// NewHclogAdapter creates a new adapter that will forward messages to a hclog.Logger.
func NewHclogAdapter(logger hclog.Logger) resty.Logger {
	return &HclogAdapter{logger: logger}
}

// Errorf logs a message at error level.
func (a *HclogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

// Warnf logs a message at warning level.
func (a *HclogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

// Debugf logs a message at debug level.
func (a *HclogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// Defaults applied when the http_client directive leaves a knob unset.
const (
	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
	defaultTimeout          = 30 * time.Second
)

// InitializeRestyClient initializes and configures a resty client based on the provided configuration.
func InitializeRestyClient(logger hclog.Logger, cfg *config.Config) *resty.Client {
	client := resty.New()
	if logger != nil {
		client.SetLogger(NewHclogAdapter(logger))
	}

	httpConfig := cfg.HTTPClient
	client.
		SetDebug(httpConfig.Debug).
		SetRetryCount(intOrDefault(httpConfig.RetryCount, defaultRetryCount)).
		SetRetryWaitTime(durationOrDefault(httpConfig.RetryWaitTime, defaultRetryWaitTime)).
		SetRetryMaxWaitTime(durationOrDefault(httpConfig.RetryMaxWaitTime, defaultRetryMaxWaitTime)).
		SetTimeout(durationOrDefault(httpConfig.Timeout, defaultTimeout)).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: !httpConfig.TLSClientConfig.Verify})

	if httpConfig.Proxy.Host != "" && httpConfig.Proxy.Port != 0 {
		client.SetProxy(fmt.Sprintf("%s:%d", httpConfig.Proxy.Host, httpConfig.Proxy.Port))
	}

	return client
}

func intOrDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func durationOrDefault(value, fallback time.Duration) time.Duration {
	if value == 0 {
		return fallback
	}
	return value
}
