package kvio

import (
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v2"
	"github.com/gnames/gnsys"
	"github.com/gnames/spidermap/internal/ent/kv"
)

// ErrNotOpen is returned when a store is used before Open.
var ErrNotOpen = errors.New("key-value store is not open")

type kvio struct {
	dir string
	kv  *badger.DB
}

// New returns a new instance of kvio. Data that already exists in the
// directory is kept.
func New(dir string) (kv.KeyVal, error) {
	res := kvio{
		dir: dir,
	}

	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create directory", "error", err, "dir", dir)
		return nil, err
	}

	return &res, nil
}

// Open opens a key-value store.
func (k *kvio) Open() error {
	if k.kv != nil {
		slog.Warn("key-value store is already open")
		return nil
	}
	options := badger.DefaultOptions(k.dir)
	options.Logger = nil

	bdb, err := badger.Open(options)
	if err != nil {
		return err
	}
	k.kv = bdb
	return nil
}

// Close closes a key-value store.
func (k *kvio) Close() error {
	if k.kv == nil {
		slog.Warn("key-value store is nil")
		return nil
	}
	err := k.kv.Close()
	k.kv = nil
	return err
}

// GetValue returns a value for a given key.
func (k *kvio) GetValue(key []byte) ([]byte, error) {
	if k.kv == nil {
		return nil, ErrNotOpen
	}
	var res []byte
	err := k.kv.View(func(txn *badger.Txn) error {
		val, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			slog.Debug("Cannot find key", "key", string(key))
			return nil
		} else if err != nil {
			return err
		}
		res, err = val.ValueCopy(nil)
		return err
	})
	return res, err
}

// SetValue saves a value for a given key.
func (k *kvio) SetValue(key, val []byte) error {
	if k.kv == nil {
		return ErrNotOpen
	}
	return k.kv.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Reset removes all data from the store.
func (k *kvio) Reset() error {
	if k.kv == nil {
		return ErrNotOpen
	}
	return k.kv.DropAll()
}
