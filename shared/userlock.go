package shared

import (
	"hash/fnv"
	"sync"
)

const userLockShards = 256

// UserLockTable serializes read-modify-write sequences per user. Streak
// and achievement progress updates race when the same user emits
// concurrent events; different users never share a shard lock's state
// beyond incidental contention.
type UserLockTable struct {
	shards [userLockShards]sync.Mutex
}

func NewUserLockTable() *UserLockTable {
	return &UserLockTable{}
}

func (t *UserLockTable) shard(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &t.shards[h.Sum32()%userLockShards]
}

func (t *UserLockTable) Lock(userID string) {
	t.shard(userID).Lock()
}

func (t *UserLockTable) Unlock(userID string) {
	t.shard(userID).Unlock()
}

// WithLock runs fn while holding the user's lock.
func (t *UserLockTable) WithLock(userID string, fn func() error) error {
	t.Lock(userID)
	defer t.Unlock(userID)
	return fn()
}
