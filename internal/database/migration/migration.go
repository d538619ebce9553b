package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_person_records",
		SQL: `CREATE TABLE IF NOT EXISTS person_records (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  staff_id           TEXT        NOT NULL UNIQUE,
  first_name         TEXT        NOT NULL,
  last_name          TEXT        NOT NULL,
  full_name          TEXT        NOT NULL,
  person_type        TEXT        NOT NULL DEFAULT 'staff',
  designation        TEXT        NOT NULL DEFAULT '',
  mobile             TEXT        NOT NULL DEFAULT '',
  address            TEXT        NOT NULL DEFAULT '',
  status             TEXT        NOT NULL DEFAULT 'active',
  seasonal           BOOLEAN     NOT NULL DEFAULT FALSE,
  face_embedding     JSONB,
  face_registered_at TIMESTAMPTZ,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_person_records_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_person_records_status ON person_records (status);`,
	},
	{
		Name: "create_table_attendance_logs",
		SQL: `CREATE TABLE IF NOT EXISTS attendance_logs (
  id          UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  person_id   UUID             NOT NULL REFERENCES person_records (id),
  check_in    TIMESTAMPTZ      NOT NULL,
  check_out   TIMESTAMPTZ,
  method      TEXT             NOT NULL DEFAULT 'manual',
  status      TEXT             NOT NULL DEFAULT 'checked_in',
  location    TEXT             NOT NULL DEFAULT '',
  confidence  DOUBLE PRECISION,
  device_id   TEXT             NOT NULL DEFAULT '',
  recorded_by TEXT             NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attendance_logs_person_day",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attendance_logs_person_day ON attendance_logs (person_id, check_in);`,
	},
	{
		Name: "create_index_attendance_logs_dedupe",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_logs_dedupe ON attendance_logs (person_id, check_in, device_id);`,
	},
	{
		Name: "create_table_daily_job_types",
		SQL: `CREATE TABLE IF NOT EXISTS daily_job_types (
  id                         UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  job_name                   TEXT             NOT NULL UNIQUE,
  category                   TEXT             NOT NULL DEFAULT '',
  unit                       TEXT             NOT NULL DEFAULT '',
  expected_output_per_worker DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at                 TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_provision_requests",
		SQL: `CREATE TABLE IF NOT EXISTS provision_requests (
  id             UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  item_type      TEXT             NOT NULL,
  description    TEXT             NOT NULL DEFAULT '',
  estimated_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
  vendor_note    TEXT             NOT NULL DEFAULT '',
  requested_by   TEXT             NOT NULL,
  status         TEXT             NOT NULL DEFAULT 'pending',
  review_note    TEXT             NOT NULL DEFAULT '',
  reviewed_by    TEXT             NOT NULL DEFAULT '',
  approved_by    TEXT             NOT NULL DEFAULT '',
  vendor_id      TEXT             NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_provision_requests_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_provision_requests_status ON provision_requests (status);`,
	},
	{
		Name: "create_table_dispatches",
		SQL: `CREATE TABLE IF NOT EXISTS dispatches (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  vehicle_no      TEXT        NOT NULL,
  driver_id       TEXT        NOT NULL,
  lot_id          TEXT        NOT NULL DEFAULT '',
  sack_count      INTEGER     NOT NULL DEFAULT 0,
  trip_status     TEXT        NOT NULL DEFAULT 'created',
  tracking_active BOOLEAN     NOT NULL DEFAULT FALSE,
  started_at      TIMESTAMPTZ,
  completed_at    TIMESTAMPTZ,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_gps_tracking_logs",
		SQL: `CREATE TABLE IF NOT EXISTS gps_tracking_logs (
  id           UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  dispatch_id  UUID             NOT NULL REFERENCES dispatches (id),
  driver_id    TEXT             NOT NULL,
  latitude     DOUBLE PRECISION NOT NULL,
  longitude    DOUBLE PRECISION NOT NULL,
  speed_kph    DOUBLE PRECISION NOT NULL DEFAULT 0,
  accuracy_m   DOUBLE PRECISION NOT NULL DEFAULT 0,
  device_id    TEXT             NOT NULL DEFAULT '',
  recorded_at  TIMESTAMPTZ      NOT NULL,
  inside_fence BOOLEAN          NOT NULL DEFAULT TRUE,
  nearest_site TEXT             NOT NULL DEFAULT '',
  distance_km  DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at   TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_gps_tracking_logs_dispatch",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_gps_tracking_logs_dispatch ON gps_tracking_logs (dispatch_id, recorded_at DESC);`,
	},
	{
		Name: "create_index_gps_tracking_logs_dedupe",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_gps_tracking_logs_dedupe ON gps_tracking_logs (dispatch_id, recorded_at, device_id);`,
	},
	{
		Name: "create_table_geofence_alerts",
		SQL: `CREATE TABLE IF NOT EXISTS geofence_alerts (
  id          UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  dispatch_id UUID             NOT NULL REFERENCES dispatches (id),
  driver_id   TEXT             NOT NULL,
  alert_type  TEXT             NOT NULL DEFAULT 'route_deviation',
  latitude    DOUBLE PRECISION NOT NULL,
  longitude   DOUBLE PRECISION NOT NULL,
  distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_onboarding_requests",
		SQL: `CREATE TABLE IF NOT EXISTS onboarding_requests (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  first_name    TEXT        NOT NULL,
  last_name     TEXT        NOT NULL,
  mobile        TEXT        NOT NULL DEFAULT '',
  address       TEXT        NOT NULL DEFAULT '',
  role          TEXT        NOT NULL DEFAULT 'worker',
  id_number     TEXT        NOT NULL DEFAULT '',
  entity_type   TEXT        NOT NULL DEFAULT 'staff',
  face_path     TEXT        NOT NULL DEFAULT '',
  document_path TEXT        NOT NULL DEFAULT '',
  status        TEXT        NOT NULL DEFAULT 'pending',
  review_note   TEXT        NOT NULL DEFAULT '',
  reviewed_by   TEXT        NOT NULL DEFAULT '',
  staff_id      TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  recipient     TEXT        NOT NULL,
  type          TEXT        NOT NULL DEFAULT 'system',
  title         TEXT        NOT NULL DEFAULT '',
  message       TEXT        NOT NULL DEFAULT '',
  data          JSONB,
  read          BOOLEAN     NOT NULL DEFAULT FALSE,
  read_at       TIMESTAMPTZ,
  sms_sent      BOOLEAN     NOT NULL DEFAULT FALSE,
  whatsapp_sent BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notifications_recipient",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient, read, created_at DESC);`,
	},
	{
		Name: "create_table_lots",
		SQL: `CREATE TABLE IF NOT EXISTS lots (
  id                 UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  lot_id             TEXT             NOT NULL UNIQUE,
  crop               TEXT             NOT NULL DEFAULT '',
  raw_weight_kg      DOUBLE PRECISION NOT NULL DEFAULT 0,
  threshed_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
  yield_pct          DOUBLE PRECISION NOT NULL DEFAULT 0,
  date_harvested     TIMESTAMPTZ      NOT NULL,
  worker_count       INTEGER          NOT NULL DEFAULT 0,
  created_by         TEXT             NOT NULL DEFAULT '',
  created_at         TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_lots_date_harvested",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_lots_date_harvested ON lots (date_harvested);`,
	},
}

// EnsureMigrated checks if the 'person_records' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.person_records') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
