package model

import "time"

// 変更の種類（相対 / 絶対）。
type ChangeOp string

const (
	ChangeOpOffset ChangeOp = "offset"
	ChangeOpSet    ChangeOp = "set"
)

// 操作した本人。認証レイヤーが確定した値をそのまま受け取る。
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// 在庫調整の履歴（台帳）。コミット成功ごとに1件、追記のみで不変。
type Adjustment struct {
	ID         string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreID    int64              `gorm:"not null;index" json:"store_id"`
	ActorID    int64              `gorm:"not null;index" json:"actor_id"`
	ActorEmail string             `gorm:"type:varchar(255);not null" json:"actor_email"`
	CreatedAt  time.Time          `gorm:"not null;index" json:"created_at"`
	Changes    []AdjustmentChange `gorm:"foreignKey:AdjustmentID" json:"changes"`
}

// 台帳の1行。OldValue はバッチ適用直前、NewValue は適用直後の数量。
// 台帳を順に再生すると在庫スナップショットが再現できる。
type AdjustmentChange struct {
	ID           int64    `gorm:"primaryKey;autoIncrement" json:"-"`
	AdjustmentID string   `gorm:"type:varchar(36);not null;index" json:"-"`
	ItemID       string   `gorm:"type:varchar(64);not null" json:"item_id"`
	Op           ChangeOp `gorm:"type:varchar(10);not null" json:"op"`
	Delta        int64    `gorm:"not null" json:"delta"`
	OldValue     int64    `gorm:"not null" json:"old_value"`
	NewValue     int64    `gorm:"not null" json:"new_value"`
}
