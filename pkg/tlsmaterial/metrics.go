package tlsmaterial

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tlsMaterialTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stackconf_tls_material_total",
		Help: "Total number of TLS material resolutions",
	},
	[]string{"source"}, // operator, generated, existing or conflict
)
