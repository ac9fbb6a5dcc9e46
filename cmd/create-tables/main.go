// Creates the sensor_readings table for local development. The ingest
// consumer appends to it; the web backend only reads.
package main

import (
	"fmt"
	"os"

	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS sensor_readings (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	bpm         DOUBLE PRECISION NOT NULL DEFAULT 0,
	spo2        DOUBLE PRECISION NOT NULL DEFAULT 0,
	temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
	humidity    DOUBLE PRECISION NOT NULL DEFAULT 0,
	steps       BIGINT NOT NULL DEFAULT 0,
	speed       DOUBLE PRECISION NOT NULL DEFAULT 0,
	activity    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_sensor_readings_user_recorded
	ON sensor_readings (user_id, recorded_at);
`

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create tables: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("sensor_readings table created")
}
