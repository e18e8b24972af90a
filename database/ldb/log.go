package ldb

import (
	"github.com/cashupol/pold/logger"
)

var log = logger.RegisterSubSystem("PLDB")
