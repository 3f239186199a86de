package metrics

import "go.uber.org/fx"

// Module provides the service metrics to the fx graph.
var Module = fx.Provide(New)
