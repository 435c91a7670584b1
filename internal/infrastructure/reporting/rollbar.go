package reporting

import (
	"context"

	"github.com/rollbar/rollbar-go"
)

// RollbarConfig identifies this deployment on Rollbar.
type RollbarConfig struct {
	Token       string
	Environment string
	ServerHost  string
	CodeVersion string
}

// RollbarReporter forwards failures to Rollbar. Items are sent asynchronously
// by the rollbar client; call Flush before exit.
type RollbarReporter struct{}

// NewRollbarReporter configures the process-wide rollbar client.
// An empty token leaves the client disabled.
func NewRollbarReporter(cfg RollbarConfig) *RollbarReporter {
	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(cfg.Environment)
	rollbar.SetServerHost(cfg.ServerHost)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	rollbar.SetEnabled(cfg.Token != "")
	return &RollbarReporter{}
}

// Report sends err with its location as an error item.
func (r *RollbarReporter) Report(_ context.Context, where string, err error) {
	if err == nil {
		return
	}
	rollbar.Error(err, map[string]interface{}{"where": where})
}

// Flush waits for queued items to be delivered.
func (r *RollbarReporter) Flush() {
	rollbar.Wait()
}
