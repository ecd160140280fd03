package culvert

import "github.com/go-i2p/logger"

// log is the package-wide logger instance.
var log = logger.GetGoI2PLogger()
