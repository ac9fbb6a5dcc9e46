package models

// RawTelemetry is the JSON payload the ESP32 publishes on the raw-data
// topic. The device computes bpm/spo2/steps/speed on its side; the backend
// only stores what it is handed.
type RawTelemetry struct {
	UserID   int64   `json:"user_id"`
	BPM      float64 `json:"bpm"`
	SpO2     float64 `json:"spo2"`
	TempC    float64 `json:"temp_c"`
	Humidity float64 `json:"humidity"`
	Steps    int64   `json:"steps"`
	SpeedMps float64 `json:"speed_mps"`
	Activity string  `json:"activity"`
}
