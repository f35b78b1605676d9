package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		profilesStored,
		authUpsertsTotal,
		progressUpdatesTotal,
		notificationsTotal,
	)
}

var (
	profilesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "profiles_stored",
			Help: "Number of profiles currently held in memory.",
		},
	)

	authUpsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_upserts_total",
			Help: "Telegram auth callbacks by outcome (created/updated).",
		},
		[]string{"result"},
	)

	progressUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_updates_total",
			Help: "Progress updates by result (applied/unknown_user).",
		},
		[]string{"result"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Ingested notifications by outcome (stored/dropped).",
		},
		[]string{"outcome"},
	)
)

func SetProfilesStored(n int) { profilesStored.Set(float64(n)) }

func IncAuthUpsert(result string) { authUpsertsTotal.WithLabelValues(norm(result)).Inc() }

func IncProgressUpdate(result string) { progressUpdatesTotal.WithLabelValues(norm(result)).Inc() }

// IncNotification counts by outcome only; activity types are client text.
func IncNotification(outcome string) {
	notificationsTotal.WithLabelValues(norm(outcome)).Inc()
}
