package implementation

import (
	"context"
	"errors"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/mapper"
	"chat-budgeting-be/internal/model"
	"chat-budgeting-be/internal/repository/contract"
	"chat-budgeting-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LLMRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LLMRunMapper
}

func NewLLMRunRepository(db *gorm.DB) contract.LLMRunRepository {
	return &LLMRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewLLMRunMapper(),
	}
}

func (r *LLMRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LLMRunRepositoryImpl) CreateIfAbsent(ctx context.Context, run *entity.LLMRun) (bool, error) {
	m := r.mapper.ToModel(run)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_message_id"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	*run = *r.mapper.ToEntity(m)
	return true, nil
}

func (r *LLMRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LLMRun, error) {
	var m model.LLMRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
