// ABOUTME: Request log storage operations.
// ABOUTME: Records served dashboard requests and answers per-panel traffic queries.

package store

import "time"

// RequestLog represents an HTTP request log entry
type RequestLog struct {
	ID           int64
	Timestamp    time.Time
	PanelName    string
	Method       string
	Path         string
	StatusCode   int
	DurationMs   int
	ViewerID     string
	IPAddress    string
	UserAgent    string
	Error        string
	RequestBody  string
	ResponseBody string
}

// LogRequest inserts a request log entry. A zero Timestamp is stamped with the current time.
func (s *Store) LogRequest(entry *RequestLog) error {
	if !s.open() {
		return ErrNotOpen
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (timestamp, panel_name, method, path, status_code, duration_ms, viewer_id, ip_address, user_agent, error, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, formatTime(ts), entry.PanelName, entry.Method, entry.Path, entry.StatusCode, entry.DurationMs,
		entry.ViewerID, entry.IPAddress, entry.UserAgent, entry.Error, entry.RequestBody, entry.ResponseBody)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit      int
	Offset     int
	PanelName  string
	Method     string
	PathPrefix string
	StatusCode int
	ViewerID   string
}

// RequestLogStats represents aggregate statistics
type RequestLogStats struct {
	TotalRequests   int
	TodayRequests   int
	ErrorRequests   int
	AvgDurationMs   int
	UniqueEndpoints int
	UniqueViewers   int
}

// EndpointCount is one row of the top-endpoints report.
type EndpointCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	AvgMs int    `json:"avg_ms"`
}

const selectRequestLogColumns = `SELECT id, timestamp, COALESCE(panel_name, ''), method, path, status_code, duration_ms,
	COALESCE(viewer_id, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(error, ''),
	COALESCE(request_body, ''), COALESCE(response_body, '')
	FROM request_logs`

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Store) GetRequestLogs(q *RequestLogQuery) ([]*RequestLog, error) {
	if !s.open() {
		return nil, ErrNotOpen
	}

	query := selectRequestLogColumns + " WHERE 1=1"
	args := []any{}

	if q.PanelName != "" {
		query += " AND panel_name = ?"
		args = append(args, q.PanelName)
	}
	if q.Method != "" {
		query += " AND method = ?"
		args = append(args, q.Method)
	}
	if q.PathPrefix != "" {
		query += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, escapeSQLLike(q.PathPrefix)+"%")
	}
	if q.StatusCode > 0 {
		query += " AND status_code = ?"
		args = append(args, q.StatusCode)
	}
	if q.ViewerID != "" {
		query += " AND viewer_id = ?"
		args = append(args, q.ViewerID)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	return s.queryRequestLogs(query, args...)
}

// GetRequestLogStats returns aggregate statistics
func (s *Store) GetRequestLogStats() (*RequestLogStats, error) {
	if !s.open() {
		return nil, ErrNotOpen
	}

	stats := &RequestLogStats{}
	today := time.Now().UTC().Format("2006-01-02")

	queries := []struct {
		sql  string
		args []any
		dest *int
	}{
		{"SELECT COUNT(*) FROM request_logs", nil, &stats.TotalRequests},
		{"SELECT COUNT(*) FROM request_logs WHERE substr(timestamp, 1, 10) = ?", []any{today}, &stats.TodayRequests},
		{"SELECT COUNT(*) FROM request_logs WHERE status_code >= 400", nil, &stats.ErrorRequests},
		{"SELECT CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER) FROM request_logs", nil, &stats.AvgDurationMs},
		{"SELECT COUNT(DISTINCT path) FROM request_logs", nil, &stats.UniqueEndpoints},
		{"SELECT COUNT(DISTINCT viewer_id) FROM request_logs WHERE viewer_id != ''", nil, &stats.UniqueViewers},
	}

	for _, q := range queries {
		if err := s.db.QueryRow(q.sql, q.args...).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// GetTopEndpoints returns the most frequently requested endpoints
func (s *Store) GetTopEndpoints(limit int) ([]EndpointCount, error) {
	if !s.open() {
		return nil, ErrNotOpen
	}

	rows, err := s.db.Query(`
		SELECT path, COUNT(*) as count, AVG(duration_ms) as avg_ms
		FROM request_logs
		GROUP BY path
		ORDER BY count DESC, path ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []EndpointCount
	for rows.Next() {
		var e EndpointCount
		var avgMs float64
		if err := rows.Scan(&e.Path, &e.Count, &avgMs); err != nil {
			return nil, err
		}
		e.AvgMs = int(avgMs)
		endpoints = append(endpoints, e)
	}
	return endpoints, rows.Err()
}

// GetPanelRequestCount returns the number of requests for a panel since a given time
func (s *Store) GetPanelRequestCount(panelName string, since time.Time) (int, error) {
	if !s.open() {
		return 0, ErrNotOpen
	}

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM request_logs
		WHERE panel_name = ? AND timestamp >= ?
	`, panelName, formatTime(since)).Scan(&count)
	return count, err
}

// GetPanelErrorRate returns the error rate percentage for a panel since a given time
func (s *Store) GetPanelErrorRate(panelName string, since time.Time) (float64, error) {
	if !s.open() {
		return 0, ErrNotOpen
	}

	var totalCount, errorCount int
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0)
		FROM request_logs
		WHERE panel_name = ? AND timestamp >= ?
	`, panelName, formatTime(since)).Scan(&totalCount, &errorCount)
	if err != nil {
		return 0, err
	}

	if totalCount == 0 {
		return 0, nil
	}

	return (float64(errorCount) / float64(totalCount)) * 100.0, nil
}

// GetRecentRequests returns the most recent requests for a panel
func (s *Store) GetRecentRequests(panelName string, limit int) ([]*RequestLog, error) {
	if !s.open() {
		return nil, ErrNotOpen
	}

	return s.queryRequestLogs(selectRequestLogColumns+`
		WHERE panel_name = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, panelName, limit)
}

func (s *Store) queryRequestLogs(query string, args ...any) ([]*RequestLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		entry := &RequestLog{}
		var timestamp string
		if err := rows.Scan(&entry.ID, &timestamp, &entry.PanelName, &entry.Method, &entry.Path, &entry.StatusCode,
			&entry.DurationMs, &entry.ViewerID, &entry.IPAddress, &entry.UserAgent, &entry.Error,
			&entry.RequestBody, &entry.ResponseBody); err != nil {
			return nil, err
		}
		entry.Timestamp, _ = time.Parse(timeLayout, timestamp)
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
