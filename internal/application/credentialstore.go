package application

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// CredentialStore owns the in-memory record collection and persists it as a
// single encrypted blob through its Envelope.
//
// After Load and after every mutation the collection is sorted ascending by
// name (byte-wise, stable). The store is not safe for concurrent use and
// assumes it is the only writer of its files.
type CredentialStore struct {
	envelope *Envelope
	records  []model.Record
}

// NewCredentialStore creates an empty store persisted through envelope.
func NewCredentialStore(envelope *Envelope) *CredentialStore {
	return &CredentialStore{envelope: envelope}
}

// Load decrypts and decodes the backing blob and replaces the collection.
// Missing key or data files return ErrStorageNotFound; anything that fails to
// decrypt or decode returns ErrIntegrity.
func (s *CredentialStore) Load() error {
	plaintext, err := s.envelope.Open()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	var records []model.Record
	if err := json.Unmarshal(plaintext, &records); err != nil {
		return fmt.Errorf("load store: decode records: %w: %v", model.ErrIntegrity, err)
	}
	for i, r := range records {
		if !r.HasID() || r.IDValue() < 0 {
			return fmt.Errorf("load store: record %d has no valid id: %w", i, model.ErrIntegrity)
		}
	}

	s.LoadRecords(records)
	return nil
}

// LoadRecords replaces the collection with caller-supplied records.
func (s *CredentialStore) LoadRecords(records []model.Record) {
	s.records = make([]model.Record, 0, len(records))
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	s.sort()
}

// Save encodes the collection and overwrites the backing blob in full.
func (s *CredentialStore) Save() error {
	plaintext, err := s.encode()
	if err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	if err := s.envelope.Seal(plaintext); err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	return nil
}

// RotateKey re-encrypts the current collection under a freshly generated key.
func (s *CredentialStore) RotateKey() error {
	plaintext, err := s.encode()
	if err != nil {
		return fmt.Errorf("rotate store key: %w", err)
	}
	if err := s.envelope.Rotate(plaintext); err != nil {
		return fmt.Errorf("rotate store key: %w", err)
	}
	return nil
}

// Find returns a copy of the record with the given id.
func (s *CredentialStore) Find(id int) (model.Record, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("find id %d: %w", id, model.ErrNotFound)
	}
	return s.records[i].Clone(), nil
}

// ListIDs returns every id in use, ascending.
func (s *CredentialStore) ListIDs() []int {
	ids := make([]int, 0, len(s.records))
	for _, r := range s.records {
		if r.HasID() {
			ids = append(ids, *r.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

// InsertOrReplace stores rec and returns its id. A record without an id gets
// one from AllocateID; a record whose id is already present replaces the
// existing record wholesale.
func (s *CredentialStore) InsertOrReplace(rec model.Record) (int, error) {
	rec = rec.Clone()
	if !rec.HasID() {
		rec = rec.WithID(AllocateID(s.ListIDs()))
	} else if *rec.ID < 0 {
		return 0, fmt.Errorf("insert record: negative id %d: %w", *rec.ID, model.ErrValidation)
	}

	if i := s.indexOf(*rec.ID); i >= 0 {
		s.records = slices.Delete(s.records, i, i+1)
	}
	s.records = append(s.records, rec)
	s.sort()
	return *rec.ID, nil
}

// Remove deletes the record with the given id.
func (s *CredentialStore) Remove(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove id %d: %w", id, model.ErrNotFound)
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// Search returns records similar to query, best match first.
func (s *CredentialStore) Search(query string, threshold float64) ([]model.Record, error) {
	return Search(s.records, query, threshold)
}

// Rank is Search with scores attached.
func (s *CredentialStore) Rank(query string, threshold float64) ([]SearchResult, error) {
	return Rank(s.records, query, threshold)
}

// ImportLegacy appends records from a foreign collection keeping their ids as
// they are. This is a best-effort merge: ids that collide with existing
// records are not reconciled, and the colliding ids are returned (ascending)
// so the caller can warn. Records without an id are allocated one. A
// negative id rejects the whole batch with ErrValidation before anything is
// added. Callers should Save before importing.
func (s *CredentialStore) ImportLegacy(external []model.Record) ([]int, error) {
	if err := checkImportIDs(external); err != nil {
		return nil, err
	}

	seen := make(map[int]int, len(s.records))
	for _, id := range s.ListIDs() {
		seen[id]++
	}

	var collisions []int
	for _, r := range external {
		r = r.Clone()
		if !r.HasID() {
			r = r.WithID(AllocateID(s.ListIDs()))
		}
		if seen[*r.ID] == 1 {
			collisions = append(collisions, *r.ID)
		}
		seen[*r.ID]++
		s.records = append(s.records, r)
	}
	s.sort()
	slices.Sort(collisions)
	return collisions, nil
}

// ImportLegacyRemapped appends records from a foreign collection, assigning
// fresh ids to records whose id is absent or already in use. It returns the
// old->new mapping for every remapped record that had an id. Negative ids are
// rejected as in ImportLegacy.
func (s *CredentialStore) ImportLegacyRemapped(external []model.Record) (map[int]int, error) {
	if err := checkImportIDs(external); err != nil {
		return nil, err
	}

	remapped := make(map[int]int)
	for _, r := range external {
		r = r.Clone()
		if r.HasID() && s.indexOf(*r.ID) < 0 {
			s.records = append(s.records, r)
			continue
		}
		newID := AllocateID(s.ListIDs())
		if r.HasID() {
			remapped[*r.ID] = newID
		}
		s.records = append(s.records, r.WithID(newID))
	}
	s.sort()
	return remapped, nil
}

func checkImportIDs(external []model.Record) error {
	for i, r := range external {
		if r.HasID() && *r.ID < 0 {
			return fmt.Errorf("import record %d: negative id %d: %w", i, *r.ID, model.ErrValidation)
		}
	}
	return nil
}

// Records returns a copy of the full record set in collection order.
func (s *CredentialStore) Records() []model.Record {
	out := make([]model.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of records held.
func (s *CredentialStore) Len() int {
	return len(s.records)
}

func (s *CredentialStore) indexOf(id int) int {
	return slices.IndexFunc(s.records, func(r model.Record) bool {
		return r.HasID() && *r.ID == id
	})
}

func (s *CredentialStore) sort() {
	slices.SortStableFunc(s.records, func(a, b model.Record) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func (s *CredentialStore) encode() ([]byte, error) {
	records := s.records
	if records == nil {
		records = []model.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return b, nil
}
