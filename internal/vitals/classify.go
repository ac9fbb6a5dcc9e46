// Package vitals maps raw vital-sign values onto bounded status categories.
// The per-metric bands are intentionally asymmetric (humidity has no danger
// tier, heart rate has no high-warning tier), so each metric carries its own
// band table instead of a shared threshold pair.
package vitals

// Metric is the closed set of classifiable vital signs.
type Metric int

const (
	MetricBPM Metric = iota
	MetricSpO2
	MetricTemperature
	MetricHumidity
)

func (m Metric) String() string {
	switch m {
	case MetricBPM:
		return "bpm"
	case MetricSpO2:
		return "spo2"
	case MetricTemperature:
		return "temperature"
	case MetricHumidity:
		return "humidity"
	}
	return "unknown"
}

// MarshalText makes Metric render as its name in JSON payloads.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a metric name, with the same bpm fallback as
// ParseMetric.
func (m *Metric) UnmarshalText(text []byte) error {
	*m = ParseMetric(string(text))
	return nil
}

// ParseMetric maps a request parameter onto the closed set. Unknown values
// fall back to heart rate, matching the dashboard's default chart.
func ParseMetric(s string) Metric {
	switch s {
	case "spo2":
		return MetricSpO2
	case "temperature":
		return MetricTemperature
	case "humidity":
		return MetricHumidity
	default:
		return MetricBPM
	}
}

// Severity is how far a reading deviates from its reference band.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Classification is the derived status for one metric value. It is
// recomputed on every read and never persisted.
type Classification struct {
	Metric   Metric   `json:"metric"`
	Value    float64  `json:"value"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Range    string   `json:"range"`
}

// Display ranges shown next to every status, regardless of category.
const (
	rangeBPM         = "Normal: 60-100 BPM"
	rangeSpO2        = "Normal: 95-100%"
	rangeTemperature = "Normal: 22-26°C"
	rangeHumidity    = "Normal: 40-60%"
)

// Classify is a total function over the closed metric set. Bounds are
// checked most severe first; boundary values belong to the lower band.
func Classify(metric Metric, value float64) Classification {
	c := Classification{Metric: metric, Value: value}
	switch metric {
	case MetricBPM:
		c.Range = rangeBPM
		switch {
		case value > 100:
			c.Category, c.Severity = "tachycardia", SeverityDanger
		case value < 60:
			c.Category, c.Severity = "bradycardia", SeverityWarning
		default:
			c.Category, c.Severity = "normal", SeverityNormal
		}
	case MetricSpO2:
		c.Range = rangeSpO2
		switch {
		case value < 90:
			c.Category, c.Severity = "severe_hypoxemia", SeverityDanger
		case value < 95:
			c.Category, c.Severity = "mild_hypoxemia", SeverityWarning
		default:
			c.Category, c.Severity = "normal", SeverityNormal
		}
	case MetricTemperature:
		c.Range = rangeTemperature
		switch {
		case value > 26:
			c.Category, c.Severity = "hot", SeverityDanger
		case value < 22:
			c.Category, c.Severity = "cold", SeverityWarning
		default:
			c.Category, c.Severity = "normal", SeverityNormal
		}
	case MetricHumidity:
		c.Range = rangeHumidity
		switch {
		// humidity never escalates past warning
		case value > 60:
			c.Category, c.Severity = "humid", SeverityWarning
		case value < 40:
			c.Category, c.Severity = "dry", SeverityWarning
		default:
			c.Category, c.Severity = "normal", SeverityNormal
		}
	default:
		// unreachable through the typed enum
		c.Category, c.Severity = "normal", SeverityNormal
	}
	return c
}

// ClassifyReading classifies every monitored metric of one reading, keyed
// by metric name for the dashboard cards.
func ClassifyReading(bpm, spo2, temperature, humidity float64) map[string]Classification {
	return map[string]Classification{
		MetricBPM.String():         Classify(MetricBPM, bpm),
		MetricSpO2.String():        Classify(MetricSpO2, spo2),
		MetricTemperature.String(): Classify(MetricTemperature, temperature),
		MetricHumidity.String():    Classify(MetricHumidity, humidity),
	}
}
