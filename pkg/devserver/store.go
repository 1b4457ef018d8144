package devserver

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
)

var (
	errNotFound       = errors.New("devserver: record not found")
	errDuplicateID    = errors.New("devserver: identity already exists")
	errIdentityNeeded = errors.New("devserver: identity is required")
)

// store is the in-memory table behind one resource.
type store struct {
	resource model.Resource

	mu      sync.RWMutex
	records map[string]record.Record
	nextID  int64
}

func newStore(res model.Resource) *store {
	return &store{
		resource: res,
		records:  make(map[string]record.Record),
		nextID:   1,
	}
}

func (s *store) identityKey(rec record.Record) string {
	return rec.Get(s.resource.Identity).String()
}

// insert stores rec, generating an integer identity when it has none.
func (s *store) insert(rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec = rec.Clone()
	id := rec.Get(s.resource.Identity)
	if id.IsNull() {
		if s.resource.IdentityField().Type != model.FieldTypeInteger {
			return nil, errIdentityNeeded
		}
		for {
			key := strconv.FormatInt(s.nextID, 10)
			if _, taken := s.records[key]; !taken {
				break
			}
			s.nextID++
		}
		rec[s.resource.Identity] = record.IntValue(s.nextID)
		s.nextID++
	} else if n, ok := id.Int(); ok && n >= s.nextID {
		s.nextID = n + 1
	}

	key := s.identityKey(rec)
	if _, exists := s.records[key]; exists {
		return nil, errDuplicateID
	}
	s.records[key] = rec
	return rec.Clone(), nil
}

func (s *store) get(id string) (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, errNotFound
	}
	return rec.Clone(), nil
}

func (s *store) replace(id string, rec record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return nil, errNotFound
	}
	s.records[id] = rec.Clone()
	return rec.Clone(), nil
}

func (s *store) remove(id string) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, errNotFound
	}
	delete(s.records, id)
	return rec, nil
}

// list returns the records matching every condition, ordered by identity.
func (s *store) list(conds []condition) record.ResultSet {
	s.mu.RLock()
	out := make(record.ResultSet, 0, len(s.records))
	for _, rec := range s.records {
		if matchesAll(rec, conds) {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	identity := s.resource.Identity
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Get(identity), out[j].Get(identity)
		af, aok := a.Float()
		bf, bok := b.Float()
		if aok && bok {
			return af < bf
		}
		return a.String() < b.String()
	})
	return out
}

// condition is one query parameter applied to a record field.
type condition struct {
	field string
	op    string
	value record.Value
}

func matchesAll(rec record.Record, conds []condition) bool {
	for _, cond := range conds {
		if !cond.matches(rec.Get(cond.field)) {
			return false
		}
	}
	return true
}

func (c condition) matches(actual record.Value) bool {
	if actual.IsNull() {
		return false
	}
	want, wantNumeric := c.value.Float()
	got, gotNumeric := actual.Float()
	switch c.op {
	case model.FilterOpGreaterEqual:
		if wantNumeric && gotNumeric {
			return got >= want
		}
		return actual.String() >= c.value.String()
	case model.FilterOpLessEqual:
		if wantNumeric && gotNumeric {
			return got <= want
		}
		return actual.String() <= c.value.String()
	default:
		if wantNumeric && gotNumeric {
			return got == want
		}
		return actual.String() == c.value.String()
	}
}
