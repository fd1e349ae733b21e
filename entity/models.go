package entity

// Models lists every persisted type, parents before children.
func Models() []any {
	return []any{
		&Category{}, &Product{}, &Modifier{},
		&InventoryItem{}, &Recipe{},
		&Customer{}, &Table{}, &Driver{},
		&Order{}, &OrderItem{}, &DeliveryOrder{},
	}
}
