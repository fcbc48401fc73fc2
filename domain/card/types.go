package card

// Record is one normalized row of the combined card-transaction table.
// Immutable once created; Bulan carries the localized month name for the
// record's whole lifetime so signatures compare without re-mapping.
type Record struct {
	SourceFolder  string  // Folder_Asal
	StoreInternal string  // Nama_Toko_Internal
	Year          string  // Tahun
	Month         string  // Bulan (localized name, e.g. "Juni")
	CardType      string  // Tipe_Kartu (section label)
	Package       string  // Paket
	Quantity      float64 // Frekuensi, always finite; sign is not validated
	TotalSales    float64 // Total_Sales
	CreditIn      float64 // Masuk_Kredit
	BonusIn       float64 // Masuk_Bonus (layout v2 only, 0 under v1)
}

// Columns is the fixed output column order of the combined table.
var Columns = []string{
	"Folder_Asal", "Nama_Toko_Internal", "Tahun", "Bulan",
	"Tipe_Kartu", "Paket", "Frekuensi", "Total_Sales", "Masuk_Kredit", "Masuk_Bonus",
}

// IsEmpty reports whether every tracked column of the record is blank or
// zero. Such rows are dropped during merge.
func (r Record) IsEmpty() bool {
	return r.SourceFolder == "" && r.StoreInternal == "" && r.Year == "" &&
		r.Month == "" && r.CardType == "" && r.Package == "" &&
		r.Quantity == 0 && r.TotalSales == 0 && r.CreditIn == 0 && r.BonusIn == 0
}

// LayoutVersion selects which of the two incompatible historical column
// layouts a sheet is read with. The version is chosen by the caller or
// config, never inferred from data shape.
type LayoutVersion int

const (
	// LayoutV1 is the older export layout: quantity at column 8, sales at 9,
	// credit at 17, no bonus column. The quantity cell must parse as a finite
	// number or the row is rejected (an explicit 0 is accepted).
	LayoutV1 LayoutVersion = iota + 1

	// LayoutV2 is the newer export layout: quantity at 8, sales at 15,
	// credit at 17, bonus at 20. Unparsable quantity is coerced to 0 and the
	// row is kept.
	LayoutV2
)

// Layout holds the positional schema for one layout version. A column index
// of -1 means the layout has no such column and the field reads as 0.
type Layout struct {
	Version         LayoutVersion
	QuantityCol     int
	SalesCol        int
	CreditCol       int
	BonusCol        int
	StrictQuantity  bool // reject rows whose quantity cell does not parse
}

// LayoutFor returns the positional schema for a layout version. Unknown
// versions fall back to LayoutV1.
func LayoutFor(v LayoutVersion) Layout {
	switch v {
	case LayoutV2:
		return Layout{Version: LayoutV2, QuantityCol: 8, SalesCol: 15, CreditCol: 17, BonusCol: 20, StrictQuantity: false}
	default:
		return Layout{Version: LayoutV1, QuantityCol: 8, SalesCol: 9, CreditCol: 17, BonusCol: -1, StrictQuantity: true}
	}
}
