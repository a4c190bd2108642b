package utils

import (
	"context"
	"time"

	"github.com/cppla/feedbbs/config"
)

func registrationKey(ip string, day time.Time) string {
	return "reg:succday:" + ip + ":" + day.UTC().Format("20060102")
}

// ReserveRegistration claims one of today's registration slots for ip. Call
// release when the registration does not go through so the slot is returned.
// It fails open when the cap is disabled, Redis is off or Redis errors.
func ReserveRegistration(ip string) (release func(), ok bool) {
	release = func() {}
	limit := config.Get().RegisterMaxPerIPPerDay
	cli := GetRedis()
	if limit <= 0 || cli == nil {
		return release, true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	now := time.Now().UTC()
	key := registrationKey(ip, now)
	n, err := cli.Incr(ctx, key).Result()
	if err != nil {
		Sugar.Warnf("registration counter failed ip=%s err=%v", ip, err)
		return release, true
	}
	if n == 1 {
		_ = cli.ExpireAt(ctx, key, now.Truncate(24*time.Hour).Add(24*time.Hour)).Err()
	}

	release = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := cli.Decr(ctx, key).Err(); err != nil {
			Sugar.Warnf("registration counter release failed ip=%s err=%v", ip, err)
		}
	}
	if n > int64(limit) {
		release()
		return func() {}, false
	}
	return release, true
}
