package store

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	"votingfsm_demo/types"
)

const (
	tableLatest = "latest"
	tableRound  = "round"

	versionKey = "sync_store_version"
)

var (
	ErrUnregisteredKey = errors.New("key is not part of the store schema")
)

// NewSyncStore wraps a tm-db backend as the synchronized store. All mutation
// goes through Commit on the engine's single control thread; reads may come
// from any goroutine.
func NewSyncStore(db tmdb.DB, logger log.Logger) *SyncStore {
	return &SyncStore{db: db, logger: logger}
}

// NewLevelDBSyncStore opens (or creates) a goleveldb backed store.
func NewLevelDBSyncStore(name, dir string, logger log.Logger) (*SyncStore, error) {
	db, err := tmdb.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(err, "open sync store db")
	}
	return NewSyncStore(db, logger), nil
}

// NewMemSyncStore returns an in-memory store.
//
// EXPOSED FOR TESTING.
func NewMemSyncStore() *SyncStore {
	return NewSyncStore(tmdb.NewMemDB(), log.NewNopLogger())
}

// SyncStore is the append/overwrite-only record of agreed facts. Each commit
// writes the latest row for every key plus a history row versioned by the
// round index it was agreed in.
type SyncStore struct {
	mtx sync.RWMutex
	db  tmdb.DB

	logger log.Logger
}

func (ss *SyncStore) SetLogger(logger log.Logger) {
	ss.logger = logger
}

// Commit atomically writes the settled selection values and the collection
// snapshot of one round outcome. Keys outside the registered schema are a
// configuration error: nothing is written and ErrUnregisteredKey is returned.
func (ss *SyncStore) Commit(
	roundIndex int64,
	values map[string]interface{},
	collectionKey string,
	collection map[string]types.Payload,
) error {
	for key := range values {
		if !IsRegisteredKey(key) {
			return errors.Wrap(ErrUnregisteredKey, key)
		}
	}
	if collectionKey != "" && !IsRegisteredKey(collectionKey) {
		return errors.Wrap(ErrUnregisteredKey, collectionKey)
	}

	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	batch := ss.db.NewBatch()
	defer batch.Close()

	for key, value := range values {
		raw, err := tmjson.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "marshal value for %q", key)
		}
		if err := ss.batchSet(batch, roundIndex, key, raw); err != nil {
			return err
		}
	}

	if collectionKey != "" && collection != nil {
		raw, err := tmjson.Marshal(collection)
		if err != nil {
			return errors.Wrapf(err, "marshal collection for %q", collectionKey)
		}
		if err := ss.batchSet(batch, roundIndex, collectionKey, raw); err != nil {
			return err
		}
	}

	if err := batch.Set(genKey(tableLatest, versionKey), int64ToBytes(roundIndex)); err != nil {
		return err
	}

	if err := batch.WriteSync(); err != nil {
		return errors.Wrap(err, "write sync store batch")
	}

	ss.logger.Debug("sync store commit", "round_index", roundIndex, "values", len(values), "collection_key", collectionKey)
	return nil
}

func (ss *SyncStore) batchSet(batch tmdb.Batch, roundIndex int64, key string, raw []byte) error {
	if err := batch.Set(genKey(tableLatest, key), raw); err != nil {
		return err
	}
	return batch.Set(genRoundKey(roundIndex, key), raw)
}

// Get returns the latest raw value committed under key.
func (ss *SyncStore) Get(key string) ([]byte, bool, error) {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	raw, err := ss.db.Get(genKey(tableLatest, key))
	if err != nil {
		return nil, false, err
	}
	return raw, raw != nil, nil
}

// GetAtRound returns the value committed under key at an exact round index,
// if that round wrote the key.
func (ss *SyncStore) GetAtRound(roundIndex int64, key string) ([]byte, bool, error) {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	raw, err := ss.db.Get(genRoundKey(roundIndex, key))
	if err != nil {
		return nil, false, err
	}
	return raw, raw != nil, nil
}

// Has reports whether key has ever been committed.
func (ss *SyncStore) Has(key string) bool {
	_, ok, err := ss.Get(key)
	return err == nil && ok
}

// Version returns the round index of the last commit, or 0 before any.
func (ss *SyncStore) Version() int64 {
	ss.mtx.RLock()
	defer ss.mtx.RUnlock()

	raw, err := ss.db.Get(genKey(tableLatest, versionKey))
	if err != nil || raw == nil {
		return 0
	}
	return bytesToInt64(raw)
}

func (ss *SyncStore) GetDB() tmdb.DB {
	return ss.db
}

func (ss *SyncStore) Close() error {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	return ss.db.Close()
}

func genKey(table, key string) []byte {
	buffer := new(bytes.Buffer)
	buffer.WriteString(table)
	buffer.WriteString("/")
	buffer.WriteString(key)
	return buffer.Bytes()
}

func genRoundKey(roundIndex int64, key string) []byte {
	return genKey(tableRound, fmt.Sprintf("%d/%s", roundIndex, key))
}

func int64ToBytes(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}

func bytesToInt64(raw []byte) int64 {
	v, _ := strconv.ParseInt(string(raw), 10, 64)
	return v
}
