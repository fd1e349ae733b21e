package entity

// TableStatus is derived from order activity: creation occupies, closing dirties.
type TableStatus string

const (
	TableFree     TableStatus = "FREE"
	TableOccupied TableStatus = "OCCUPIED"
	TableDirty    TableStatus = "DIRTY"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableDirty:
		return true
	}
	return false
}
