// Package httpclient builds the retrying HTTP client shared by the catalog, the dataset
// loader and the hosted leaderboard.
package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	DefaultRetryMax = 5
	DefaultTimeout  = 15 * time.Second
)

// New returns a retrying client. Retry chatter is logged at debug level through logger;
// a nil logger silences it.
func New(logger *zap.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = DefaultRetryMax
	client.HTTPClient.Timeout = DefaultTimeout
	client.Logger = nil
	if logger != nil {
		client.Logger = leveledLogger{logger.Named("http").Sugar()}
	}
	return client
}

// Standard returns a plain *http.Client whose transport retries through client.
func Standard(client *retryablehttp.Client) *http.Client {
	return client.StandardClient()
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger. Errors are logged as warnings,
// everything else at debug.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}
