package model

import "time"

// 店舗ごとの在庫スナップショット。
// stock_records の1行が店舗の分離単位（Versionで楽観ロック）。
type StockRecord struct {
	StoreID   int64           `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	Version   int64           `gorm:"not null" json:"-"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	Items     []ItemAttribute `gorm:"-" json:"items"`
}

// アイテムごとの現在数量。コミット済み状態では常に Quantity >= 0。
type ItemAttribute struct {
	StoreID  int64  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ItemID   string `gorm:"primaryKey;type:varchar(64)" json:"item_id"`
	Quantity int64  `gorm:"not null" json:"quantity"`
}
