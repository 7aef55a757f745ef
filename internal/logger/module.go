package logger

import "go.uber.org/fx"

// Module provides the service JSON logger.
var Module = fx.Provide(New)
