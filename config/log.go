package config

import (
	"github.com/cashupol/pold/logger"
)

var log = logger.RegisterSubSystem("CNFG")
