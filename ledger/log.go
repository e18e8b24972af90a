package ledger

import (
	"github.com/cashupol/pold/logger"
	"github.com/cashupol/pold/util/panics"
)

var log = logger.RegisterSubSystem("LEDG")
var spawn = panics.GoroutineWrapperFunc(log)
