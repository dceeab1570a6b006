package model

// booksテーブルの名前と列名
const (
	TableBooks = "books"

	ColumnID            = "_id"
	ColumnName          = "product_name"
	ColumnPrice         = "product_price"
	ColumnQuantity      = "product_quantity"
	ColumnSupplierName  = "supplier_name"
	ColumnSupplierPhone = "supplier_phone"
)

// スキーマのバージョン。変更したら上げる。
const SchemaVersion = 1

// 在庫を持つ本1冊分のレコード。
// Priceは最小通貨単位（整数）。Quantityは常に0以上。
type Book struct {
	ID            int64  `gorm:"column:_id;primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"column:product_name;type:text;not null" json:"name"`
	Price         int64  `gorm:"column:product_price;not null;default:0" json:"price"`
	Quantity      int64  `gorm:"column:product_quantity;not null;default:0" json:"quantity"`
	SupplierName  string `gorm:"column:supplier_name;type:text;not null" json:"supplier_name"`
	SupplierPhone string `gorm:"column:supplier_phone;type:text;not null" json:"supplier_phone"`
}

func (Book) TableName() string {
	return TableBooks
}

// 在庫があるか（販売ボタンを出すかどうか）
func (b Book) InStock() bool {
	return b.Quantity > 0
}

// カタログの「ダミーデータ挿入」で入る1行
func DummyBook() Book {
	return Book{
		Name:          "Star Wars",
		Price:         10,
		Quantity:      1,
		SupplierName:  "HVG",
		SupplierPhone: "0036201111111",
	}
}
