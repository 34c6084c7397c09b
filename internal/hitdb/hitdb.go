// Package hitdb stores the hit records the transport engine produces when a
// particle crosses a sensitive volume. Each worker owns exactly one writer
// with lifecycle open → write rows → close; cross-worker merging happens
// after the workers terminate, outside this package.
package hitdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Hit is one recorded particle crossing. Momenta are in MeV; positions are
// offset-corrected so z is real altitude in millimetres; angles are the
// momentum direction in radians; GlobalTime is seconds since the start of the
// event.
type Hit struct {
	EventID       int64
	TrackID       int64
	Worker        int
	Particle      string
	PDGCode       int64
	Px, Py, Pz    float64
	X, Y, Z       float64
	ThetaRad      float64
	PhiRad        float64
	GlobalTimeSec float64
	DetectorIndex int
}

// Open creates or opens the hit database at path and ensures the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			worker            BIGINT,
			seed              BIGINT,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS hits (
			run_id            TEXT,
			event_id          BIGINT,
			track_id          BIGINT,
			worker            BIGINT,
			particle          TEXT,
			pdg_code          BIGINT,
			px_mev            DOUBLE,
			py_mev            DOUBLE,
			pz_mev            DOUBLE,
			x_mm              DOUBLE,
			y_mm              DOUBLE,
			z_mm              DOUBLE,
			theta_rad         DOUBLE,
			phi_rad           DOUBLE,
			global_time_s     DOUBLE,
			detector_index    BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// BeginRun registers a new run for the given worker and returns its ID.
func (db *DB) BeginRun(worker int, seed int64) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO runs (run_id, worker, seed, started_at) VALUES (?, ?, ?, ?)`,
		runID, worker, seed, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to register run: %w", err)
	}
	return runID, nil
}

// RecordHit appends one hit row to the run.
func (db *DB) RecordHit(runID string, h Hit) error {
	_, err := db.Exec(
		`INSERT INTO hits (
			run_id, event_id, track_id, worker, particle, pdg_code,
			px_mev, py_mev, pz_mev, x_mm, y_mm, z_mm,
			theta_rad, phi_rad, global_time_s, detector_index
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, h.EventID, h.TrackID, h.Worker, h.Particle, h.PDGCode,
		h.Px, h.Py, h.Pz, h.X, h.Y, h.Z,
		h.ThetaRad, h.PhiRad, h.GlobalTimeSec, h.DetectorIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to record hit: %w", err)
	}
	return nil
}

// CountHits returns the number of hits recorded for a run.
func (db *DB) CountHits(runID string) (int64, error) {
	var n int64
	err := db.QueryRow(`SELECT COUNT(*) FROM hits WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count hits: %w", err)
	}
	return n, nil
}

// HitsForRun returns all hits of a run in insertion order. The post-run merge
// collaborator reads each worker's file through this.
func (db *DB) HitsForRun(runID string) ([]Hit, error) {
	rows, err := db.Query(
		`SELECT event_id, track_id, worker, particle, pdg_code,
			px_mev, py_mev, pz_mev, x_mm, y_mm, z_mm,
			theta_rad, phi_rad, global_time_s, detector_index
		FROM hits WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(
			&h.EventID, &h.TrackID, &h.Worker, &h.Particle, &h.PDGCode,
			&h.Px, &h.Py, &h.Pz, &h.X, &h.Y, &h.Z,
			&h.ThetaRad, &h.PhiRad, &h.GlobalTimeSec, &h.DetectorIndex,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
