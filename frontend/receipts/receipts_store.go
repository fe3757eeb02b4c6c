package receipts

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"weighbridge/infrastructure/kv"
	"weighbridge/models"
)

// ReceiptsKey is the blob holding the full saved sequence as a JSON array.
const ReceiptsKey = "weight_receipts"

// Store is the saved-receipts collection: an ordered sequence, newest saves
// first, loaded once at startup and written back in full after every
// mutation. The mutex is for the http handler pool; logically there is a
// single operator.
type Store struct {
	mu  sync.Mutex
	kv  *kv.Store
	seq []models.Receipt
}

// NewStore loads the saved sequence. A missing or malformed blob is treated
// as no saved data, never a failure.
func NewStore(ctx context.Context, kvStore *kv.Store) (*Store, error) {
	s := &Store{kv: kvStore, seq: []models.Receipt{}}

	blob, found, err := kvStore.Get(ctx, ReceiptsKey)
	if err != nil {
		return nil, err
	}
	if found {
		var seq []models.Receipt
		if err := json.Unmarshal(blob, &seq); err != nil {
			slog.Warn("stored receipts unreadable, starting empty", slog.Any("err", err))
		} else {
			s.seq = seq
		}
	}
	return s, nil
}

// All returns a copy of the saved sequence in stored order.
func (s *Store) All() []models.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Receipt(nil), s.seq...)
}

// Save replaces the record in place when its id is already saved, otherwise
// assigns a fresh id if needed and prepends. The full sequence is persisted
// before the saved record is returned.
func (s *Store) Save(ctx context.Context, rec models.Receipt) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID != 0 {
		for i := range s.seq {
			if s.seq[i].ID == rec.ID {
				s.seq[i] = rec
				if err := s.persist(ctx); err != nil {
					return rec, err
				}
				return rec, nil
			}
		}
	}
	if rec.ID == 0 {
		rec.ID = s.nextID()
	}
	s.seq = append([]models.Receipt{rec}, s.seq...)
	if err := s.persist(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

// Delete removes the matching entry and persists. A missing id is a no-op,
// reported through removed.
func (s *Store) Delete(ctx context.Context, id int64) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.seq {
		if s.seq[i].ID == id {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			return true, s.persist(ctx)
		}
	}
	return false, nil
}

// Search filters by case-insensitive substring on vehicle or customer, or
// substring of the RST number. Order is preserved; an empty query returns
// everything.
func (s *Store) Search(query string) []models.Receipt {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.All()
	}
	lower := strings.ToLower(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	matches := make([]models.Receipt, 0)
	for _, rec := range s.seq {
		if strings.Contains(strings.ToLower(rec.VehicleNo), lower) ||
			strings.Contains(strings.ToLower(rec.Customer), lower) ||
			strings.Contains(rec.RSTNo, query) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Load returns a copy of the stored record to edit; the sequence itself is
// untouched.
func (s *Store) Load(id int64) (models.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.seq {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Receipt{}, false
}

// nextID hands out millisecond timestamps, bumped past any id already in the
// sequence so a session never reuses one. Caller holds the lock.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	for s.containsID(id) {
		id++
	}
	return id
}

func (s *Store) containsID(id int64) bool {
	for _, rec := range s.seq {
		if rec.ID == id {
			return true
		}
	}
	return false
}

// persist writes the whole sequence back to the blob. Caller holds the lock.
func (s *Store) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.seq)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, ReceiptsKey, blob)
}
