package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register is called by init() in each metrics file to enqueue collectors.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// RegisterWith registers every enqueued collector with reg.
func RegisterWith(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister registers the collectors with the default registry exactly once.
func MustRegister() {
	once.Do(func() {
		if err := RegisterWith(prometheus.DefaultRegisterer); err != nil {
			panic(err)
		}
	})
}
