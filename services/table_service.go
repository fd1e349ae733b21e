package services

import (
	"context"

	"restopos/entity"
	"restopos/repository"

	"gorm.io/gorm"
)

type TableService struct {
	DB   *gorm.DB
	Repo *repository.TableRepository
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db, Repo: repository.NewTableRepository(db)}
}

func (s *TableService) List(ctx context.Context) ([]entity.Table, error) {
	out, err := repository.NewTableRepository(s.DB.WithContext(ctx)).ListWithActiveOrders()
	return out, classify(err, "tables", "", "list tables")
}

// MarkClean frees a table after it has been bussed. Only DIRTY tables qualify.
func (s *TableService) MarkClean(ctx context.Context, tableID uint) (*entity.Table, error) {
	db := s.DB.WithContext(ctx)
	var out *entity.Table
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := s.Repo.Get(tx, tableID)
		if err != nil {
			return classify(err, "table", tableID, "load table")
		}
		if t.Status != entity.TableDirty {
			return Validation("table %d is %s, not DIRTY", t.Number, t.Status)
		}
		affected, err := s.Repo.SetStatusFrom(tx, tableID, entity.TableDirty, entity.TableFree)
		if err != nil {
			return err
		}
		if affected == 0 {
			return Validation("table %d changed concurrently", t.Number)
		}
		t.Status = entity.TableFree
		out = t
		return nil
	})
	if err != nil {
		return nil, classify(err, "table", tableID, "clean table")
	}
	return out, nil
}
