package notifier

import "context"

// Redis未設定のとき用
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) StoreChanged(ctx context.Context, storeID int64) {}
