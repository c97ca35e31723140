package storage

import (
	"encoding/binary"
	"time"

	"go.etcd.io/bbolt"
)

// SessionStorage implements fiber.Storage on the Sessions bucket. Each value
// is prefixed with its expiry as unix nanoseconds, zero meaning no expiry.
type SessionStorage struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewSessionStorage creates a session store on an initialised database
func NewSessionStorage(db *bbolt.DB) *SessionStorage {
	return &SessionStorage{db: db, now: time.Now}
}

// Get returns nil without error for missing or expired keys
func (s *SessionStorage) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(sessionsBucket)).Get([]byte(key))
		if len(v) < 8 {
			return nil
		}
		if exp := int64(binary.BigEndian.Uint64(v[:8])); exp != 0 && s.now().UnixNano() > exp {
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		return nil
	})
	return out, err
}

// Set stores val for key. A zero exp keeps the value until deleted.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	var expiry int64
	if exp > 0 {
		expiry = s.now().Add(exp).UnixNano()
	}
	record := make([]byte, 8+len(val))
	binary.BigEndian.PutUint64(record[:8], uint64(expiry))
	copy(record[8:], val)

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Put([]byte(key), record)
	})
}

// Delete removes key
func (s *SessionStorage) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Delete([]byte(key))
	})
}

// Reset drops every session
func (s *SessionStorage) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(sessionsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(sessionsBucket))
		return err
	})
}

// Purge deletes expired sessions and returns how many were removed
func (s *SessionStorage) Purge() (int, error) {
	removed := 0
	now := s.now().UnixNano()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionsBucket))

		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if len(v) < 8 {
				return nil
			}
			if exp := int64(binary.BigEndian.Uint64(v[:8])); exp != 0 && now > exp {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		// deleting while iterating skips keys
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	return removed, err
}

// Close is a no-op; the database is owned and closed by main
func (s *SessionStorage) Close() error {
	return nil
}
