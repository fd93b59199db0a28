package notifier

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const storeChangesChannel = "store-changes"

// Redis pub/sub で「店舗Xが変わった」を配る。
// 購読側はポーリングを早めるヒントとしてだけ使う前提。
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) StoreChanged(ctx context.Context, storeID int64) {
	//失敗は無視（best-effort、コミットは既に確定している）
	n.client.Publish(ctx, storeChangesChannel, strconv.FormatInt(storeID, 10))
}
