// Package fallback is the offline safety net: a single JSON document on
// local disk mirroring the availability-critical entities (colleges and
// leads). It is consulted only when the primary store fails, is process-local
// and unreplicated, and must never be treated as a production datastore.
package fallback

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type document struct {
	Colleges []map[string]any `json:"colleges"`
	Leads    []map[string]any `json:"leads"`
}

// Store keeps the whole document in memory and rewrites the backing file in
// full on every mutation. The mutex serializes the read-modify-write-to-file
// cycle; there is exactly one Store per process, injected where needed.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads the backing file. A missing file starts from the built-in seed.
// A corrupt file is quarantined (never overwritten) and the store starts
// from the seed as well, after logging loudly: startup availability wins,
// but the broken state stays on disk for the operator.
func Open(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.doc = seedDocument()
		return s
	}
	if err == nil {
		err = json.Unmarshal(data, &s.doc)
	}
	if err != nil {
		quarantined := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		if renameErr := os.Rename(path, quarantined); renameErr != nil {
			log.Printf("[FALLBACK] ERROR: could not quarantine %s: %v", path, renameErr)
		}
		log.Printf("[FALLBACK] ERROR: %s is unreadable (%v); quarantined to %s, starting from seed data", path, err, quarantined)
		s.doc = seedDocument()
	}

	return s
}

func seedDocument() document {
	now := time.Now().Format(time.RFC3339)
	return document{
		Colleges: []map[string]any{
			{
				"id": "sample-harvard", "name": "Harvard University", "slug": "harvard-university",
				"city": "Cambridge", "country": "USA", "is_sample": true,
				"created_at": now, "updated_at": now,
			},
			{
				"id": "sample-oxford", "name": "University of Oxford", "slug": "university-of-oxford",
				"city": "Oxford", "country": "UK", "is_sample": true,
				"created_at": now, "updated_at": now,
			},
		},
	}
}

// persistLocked rewrites the whole document. Callers hold s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func syntheticID() string {
	return fmt.Sprintf("local-%d", time.Now().UnixNano())
}

// cloneRecord decouples the returned map from the stored one. Records cross
// the store boundary only as copies, so callers can encode or mutate them
// after the mutex is released without racing a concurrent mutation.
func cloneRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func cloneRecords(recs []map[string]any) []map[string]any {
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = cloneRecord(r)
	}
	return out
}

func stamp(rec map[string]any, isNew bool) {
	now := time.Now().Format(time.RFC3339)
	if isNew {
		if _, ok := rec["created_at"]; !ok {
			rec["created_at"] = now
		}
	}
	rec["updated_at"] = now
}

// --- colleges ---

func (s *Store) ListColleges() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.doc.Colleges)
}

func (s *Store) GetCollege(id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.doc.Colleges {
		if c["id"] == id {
			return cloneRecord(c), true
		}
	}
	return nil, false
}

func (s *Store) CreateCollege(rec map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec = cloneRecord(rec)
	if rec["id"] == nil || rec["id"] == "" {
		rec["id"] = syntheticID()
	}
	stamp(rec, true)

	s.doc.Colleges = append(s.doc.Colleges, rec)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// UpdateCollege merges the given fields into the record (shallow: values
// replace, nested maps are not merged).
func (s *Store) UpdateCollege(id string, fields map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.doc.Colleges {
		if c["id"] == id {
			for k, v := range fields {
				c[k] = v
			}
			stamp(c, false)
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
			return cloneRecord(c), nil
		}
	}
	return nil, entity.ErrCollegeNotFound
}

func (s *Store) DeleteCollege(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.doc.Colleges {
		if c["id"] == id {
			s.doc.Colleges = append(s.doc.Colleges[:i], s.doc.Colleges[i+1:]...)
			return s.persistLocked()
		}
	}
	return entity.ErrCollegeNotFound
}

// --- leads ---

func (s *Store) ListLeads() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.doc.Leads)
}

// UpsertLead keeps the email-dedup invariant alive even in degraded mode.
func (s *Store) UpsertLead(rec map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, _ := rec["email"].(string)
	for _, l := range s.doc.Leads {
		if l["email"] == email {
			for k, v := range rec {
				if v == nil || v == "" {
					continue
				}
				l[k] = v
			}
			stamp(l, false)
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
			return cloneRecord(l), nil
		}
	}

	rec = cloneRecord(rec)
	if rec["id"] == nil || rec["id"] == "" {
		rec["id"] = syntheticID()
	}
	if rec["status"] == nil {
		rec["status"] = entity.LeadNew
	}
	if rec["priority"] == nil {
		rec["priority"] = entity.PriorityMedium
	}
	stamp(rec, true)

	s.doc.Leads = append(s.doc.Leads, rec)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

// --- stats ---

// Stats counts what the document holds. The store does not track creation
// windows with real precision, so the today/this-week counters are zero.
func (s *Store) Stats() *entity.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &entity.Stats{
		Colleges: len(s.doc.Colleges),
		Leads:    len(s.doc.Leads),
	}
}
