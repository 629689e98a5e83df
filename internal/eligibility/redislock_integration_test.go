//go:build integration

package eligibility

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cnr/pkg/testutil/containers"
)

type RedisLockerSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLockerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockerSuite))
}

func (s *RedisLockerSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisLockerSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLockerSuite) TestMutualExclusion() {
	locker := NewRedisLocker(s.redis.Client, WithLockRetry(5*time.Millisecond))
	ctx := context.Background()

	var inside, overlaps atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "beneficiary-1")
			if !s.NoError(err) {
				return
			}
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(5 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	s.Equal(int32(0), overlaps.Load())
}

func (s *RedisLockerSuite) TestWaiterHonoursContext() {
	locker := NewRedisLocker(s.redis.Client)
	unlock, err := locker.Lock(context.Background(), "beneficiary-2")
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "beneficiary-2")
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *RedisLockerSuite) TestExpiredHolderCannotReleaseNewLock() {
	locker := NewRedisLocker(s.redis.Client, WithLockTTL(50*time.Millisecond), WithLockRetry(5*time.Millisecond))
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "beneficiary-3")
	s.Require().NoError(err)
	time.Sleep(80 * time.Millisecond)

	freshUnlock, err := locker.Lock(ctx, "beneficiary-3")
	s.Require().NoError(err)
	staleUnlock()

	exists, err := s.redis.Client.Exists(ctx, lockKeyPrefix+"beneficiary-3").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists, "stale release must not delete the new holder's key")
	freshUnlock()

	exists, err = s.redis.Client.Exists(ctx, lockKeyPrefix+"beneficiary-3").Result()
	s.Require().NoError(err)
	s.Equal(int64(0), exists)
}
