package verifier

import (
	"github.com/cashupol/pold/logger"
)

var log = logger.RegisterSubSystem("VRFY")
