// Package history holds the capped, newest-first list of recent scans for a
// scanner session. It is not safe for concurrent use; a session's event loop
// is its only caller.
package history

import "qrscan-go/pkg/models"

// Capacity is the maximum number of records a Store keeps
const Capacity = 10

// Store is an ordered buffer of scan records, newest first
type Store struct {
	records []models.ScanRecord
}

// New creates an empty store
func New() *Store {
	return &Store{records: make([]models.ScanRecord, 0, Capacity)}
}

// Append puts record at the front and evicts the oldest beyond Capacity
func (s *Store) Append(record models.ScanRecord) {
	next := make([]models.ScanRecord, 0, Capacity)
	next = append(next, record)
	next = append(next, s.records...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	s.records = next
}

// UpdateStatus replaces the webhook status and error of the record whose
// timestamp matches exactly. It reports whether a record was found.
// Order and length are never changed.
func (s *Store) UpdateStatus(timestamp int64, status models.WebhookStatus, errMsg string) bool {
	for i := range s.records {
		if s.records[i].Timestamp != timestamp {
			continue
		}
		updated := s.records[i]
		updated.WebhookStatus = status
		updated.WebhookError = errMsg
		s.records[i] = updated
		return true
	}
	return false
}

// Clear drops every record
func (s *Store) Clear() {
	s.records = make([]models.ScanRecord, 0, Capacity)
}

// Records returns a copy of the history, newest first
func (s *Store) Records() []models.ScanRecord {
	out := make([]models.ScanRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Latest returns the newest record, if any
func (s *Store) Latest() (models.ScanRecord, bool) {
	if len(s.records) == 0 {
		return models.ScanRecord{}, false
	}
	return s.records[0], true
}

// Len returns the number of records held
func (s *Store) Len() int {
	return len(s.records)
}
