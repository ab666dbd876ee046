package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ascesc/internal/equipment"
	"ascesc/internal/incident"
)

const incidentColumns = "start_date, equipment_code, start_time, end_date, end_time, line, station, equipment_id, comment, reason, duration_hours, duration_days, source_period, source_row"

// ReplaceCanonical swaps the stored canonical set for incidents and records
// the run's anomalies, in one transaction. A failure leaves the previous set
// untouched.
func (s *Store) ReplaceCanonical(ctx context.Context, runID string, incidents []incident.Incident, anomalies []Anomaly) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM incidents`); err != nil {
		return fmt.Errorf("clear incidents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO incidents (`+incidentColumns+`, position, run_id)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare incident insert: %w", err)
	}
	defer stmt.Close()

	for pos, inc := range incidents {
		if _, err := stmt.ExecContext(ctx,
			inc.StartDate.Format(dateLayout),
			inc.EquipmentCode,
			nullableString(inc.StartTime),
			nullableDate(inc.EndDate),
			nullableString(inc.EndTime),
			nullableString(inc.Line),
			nullableString(inc.Station),
			nullableInt(inc.EquipmentID),
			nullableString(inc.Comment),
			nullableString(inc.Reason),
			nullableFloat(inc.DurationHours),
			nullableFloat(inc.DurationDays),
			nullableString(inc.SourcePeriod),
			inc.SourceRow,
			pos,
			runID,
		); err != nil {
			return fmt.Errorf("insert incident %s: %w", inc.Key(), err)
		}
	}

	for _, a := range anomalies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO anomalies (run_id, kind, start_date, equipment_code, periods, detail)
             VALUES (?, ?, ?, ?, ?, ?)`,
			runID,
			a.Kind,
			a.StartDate.Format(dateLayout),
			a.EquipmentCode,
			joinList(a.Periods),
			nullableString(a.Detail),
		); err != nil {
			return fmt.Errorf("insert anomaly: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit canonical set: %w", err)
	}
	return nil
}

// ListIncidents returns canonical incidents in merge order.
func (s *Store) ListIncidents(ctx context.Context, filter IncidentFilter) ([]incident.Incident, error) {
	var (
		where []string
		args  []any
	)
	if filter.Line != "" {
		where = append(where, "line = ?")
		args = append(args, filter.Line)
	}
	if filter.EquipmentCode != "" {
		where = append(where, "equipment_code = ?")
		args = append(args, filter.EquipmentCode)
	}
	if filter.Year > 0 {
		where = append(where, "substr(start_date, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", filter.Year))
	}
	switch equipment.Type(filter.Type) {
	case equipment.Elevator:
		where = append(where, "substr(equipment_code, 1, ?) = ?")
		args = append(args, len(equipment.ElevatorPrefix), equipment.ElevatorPrefix)
	case equipment.Escalator:
		where = append(where, "substr(equipment_code, 1, ?) <> ?")
		args = append(args, len(equipment.ElevatorPrefix), equipment.ElevatorPrefix)
	case "":
	default:
		return nil, fmt.Errorf("unknown equipment type %q", filter.Type)
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY position`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []incident.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// CountIncidents returns the size of the canonical set.
func (s *Store) CountIncidents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM incidents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return n, nil
}

// ListAnomalies returns the anomalies recorded by a run.
func (s *Store) ListAnomalies(ctx context.Context, runID string) ([]Anomaly, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, kind, start_date, equipment_code, periods, detail
         FROM anomalies WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list anomalies: %w", err)
	}
	defer rows.Close()

	var out []Anomaly
	for rows.Next() {
		var (
			a         Anomaly
			startDate sql.NullString
			periods   sql.NullString
			detail    sql.NullString
		)
		if err := rows.Scan(&a.RunID, &a.Kind, &startDate, &a.EquipmentCode, &periods, &detail); err != nil {
			return nil, fmt.Errorf("scan anomaly: %w", err)
		}
		if d := parseDate(startDate); d != nil {
			a.StartDate = *d
		}
		a.Periods = splitList(periods)
		a.Detail = detail.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanIncident(scanner interface{ Scan(dest ...any) error }) (incident.Incident, error) {
	var (
		startDate     string
		code          string
		startTime     sql.NullString
		endDate       sql.NullString
		endTime       sql.NullString
		line          sql.NullString
		station       sql.NullString
		equipmentID   sql.NullInt64
		comment       sql.NullString
		reason        sql.NullString
		durationHours sql.NullFloat64
		durationDays  sql.NullFloat64
		sourcePeriod  sql.NullString
		sourceRow     sql.NullInt64
	)
	if err := scanner.Scan(
		&startDate,
		&code,
		&startTime,
		&endDate,
		&endTime,
		&line,
		&station,
		&equipmentID,
		&comment,
		&reason,
		&durationHours,
		&durationDays,
		&sourcePeriod,
		&sourceRow,
	); err != nil {
		return incident.Incident{}, err
	}

	inc := incident.Incident{
		EquipmentCode: code,
		StartTime:     startTime.String,
		EndDate:       parseDate(endDate),
		EndTime:       endTime.String,
		Line:          line.String,
		Station:       station.String,
		Comment:       comment.String,
		Reason:        reason.String,
		SourcePeriod:  sourcePeriod.String,
		SourceRow:     int(sourceRow.Int64),
	}
	if d := parseDate(sql.NullString{String: startDate, Valid: true}); d != nil {
		inc.StartDate = *d
	}
	if equipmentID.Valid {
		id := int(equipmentID.Int64)
		inc.EquipmentID = &id
	}
	if durationHours.Valid && durationDays.Valid {
		hours, days := durationHours.Float64, durationDays.Float64
		inc.DurationHours = &hours
		inc.DurationDays = &days
	}
	return inc, nil
}
