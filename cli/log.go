package cli

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("csvdialect")

// ConfigureLogging sets the log verbosity from the number of --verbose
// flags. Logs go to stderr.
func ConfigureLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}
