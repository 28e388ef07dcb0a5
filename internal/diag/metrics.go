package diag

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 进程内私有指标注册表；通过 WriteMetrics 以 textfile 格式导出。
var (
	Registry = prometheus.NewRegistry()

	recordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstruct",
		Name:      "records_total",
		Help:      "Records delivered to sinks, by record type.",
	}, []string{"type"})

	anomaliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstruct",
		Name:      "anomalies_total",
		Help:      "Records carrying an error attribute, by kind.",
	}, []string{"kind"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstruct",
		Name:      "errors_total",
		Help:      "Fatal errors by component and classification code.",
	}, []string{"comp", "code"})

	stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookstruct",
		Name:      "stage_duration_seconds",
		Help:      "Duration of timed stages.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"comp"})
)

func init() {
	Registry.MustRegister(recordsTotal, anomaliesTotal, errorsTotal, stageDuration)
}

// IncRecord 按类型累加已交付记录数。
func IncRecord(typ string) { recordsTotal.WithLabelValues(typ).Inc() }

// IncAnomaly 累加带 error 属性的记录数（kind: duplicate|missing|other）。
func IncAnomaly(kind string) { anomaliesTotal.WithLabelValues(kind).Inc() }

// IncError 按分类累加致命错误。
func IncError(comp string, code Code) { errorsTotal.WithLabelValues(comp, string(code)).Inc() }

// ObserveDuration 记录阶段耗时。
func ObserveDuration(comp string, d time.Duration) {
	stageDuration.WithLabelValues(comp).Observe(d.Seconds())
}

// WriteMetrics 将当前指标写入 textfile（node_exporter textfile 格式）。
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
