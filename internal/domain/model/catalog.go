package model

// 店舗ごとの販売アイテム定義。カタログ編集側が所有し、
// 在庫エンジンからは ApplyCatalogUpdate での入れ替え以外は読み取り専用。
type CatalogItem struct {
	StoreID int64  `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	ID      string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Code    string `gorm:"type:varchar(64)" json:"code"`
}

// セクション（棚）の構造。エンジンは行の item_id の参照先しか見ない。
type Section struct {
	StoreID  int64        `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	ID       string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name     string       `gorm:"type:varchar(255);not null" json:"name"`
	Position int          `gorm:"not null" json:"position"`
	Rows     []SectionRow `gorm:"-" json:"rows"`
}

type SectionRow struct {
	StoreID   int64  `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SectionID string `gorm:"primaryKey;type:varchar(64)" json:"-"`
	Position  int    `gorm:"primaryKey;autoIncrement:false" json:"position"`
	ItemID    string `gorm:"type:varchar(64);not null" json:"item_id"`
}
