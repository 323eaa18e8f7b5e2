package storage

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions
(
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time TIMESTAMP NOT NULL,
    source     TEXT      NOT NULL,
    config     TEXT
);

CREATE TABLE IF NOT EXISTS series_rows
(
    session_id      INTEGER NOT NULL REFERENCES sessions (id),
    row_index       INTEGER NOT NULL,
    timestamp       REAL    NOT NULL,
    message_id      TEXT    NOT NULL,
    roll_input      REAL,
    pitch_input     REAL,
    yaw_input       REAL,
    hover_throttle  REAL,
    prop_spin       REAL,
    pusher_throttle REAL,
    pitch_angle     REAL,
    pitch_rate      REAL,
    roll_angle      REAL,
    roll_rate       REAL,
    yaw_angle       REAL,
    yaw_rate        REAL,
    PRIMARY KEY (session_id, row_index)
);`

	// Created on Close, after the bulk of the inserts.
	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_series_rows_timestamp ON series_rows (session_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_series_rows_message_id ON series_rows (session_id, message_id);`

	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      source,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    source,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    source,
    config
FROM sessions
ORDER BY start_time, id`

	insertSeriesRowSQL = `
INSERT INTO series_rows (
                         session_id,
                         row_index,
                         timestamp,
                         message_id,
                         roll_input,
                         pitch_input,
                         yaw_input,
                         hover_throttle,
                         prop_spin,
                         pusher_throttle,
                         pitch_angle,
                         pitch_rate,
                         roll_angle,
                         roll_rate,
                         yaw_angle,
                         yaw_rate)
VALUES `

	seriesRowPlaceholder = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	seriesRowNumColumns  = 16

	selectSeriesRowsSQL = `
SELECT
    row_index,
    timestamp,
    message_id,
    roll_input,
    pitch_input,
    yaw_input,
    hover_throttle,
    prop_spin,
    pusher_throttle,
    pitch_angle,
    pitch_rate,
    roll_angle,
    roll_rate,
    yaw_angle,
    yaw_rate
FROM series_rows
WHERE
    session_id = ?
    AND (? IS NULL OR timestamp >= ?)
    AND (? IS NULL OR timestamp <= ?)
    AND (? IS NULL OR message_id = ?)
ORDER BY row_index`
)
