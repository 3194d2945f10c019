package implementation

import (
	"context"

	"chat-budgeting-be/internal/entity"
	"chat-budgeting-be/internal/mapper"
	"chat-budgeting-be/internal/model"
	"chat-budgeting-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageVectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VectorMapper
}

func NewMessageVectorRepository(db *gorm.DB) contract.MessageVectorRepository {
	return &MessageVectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewVectorMapper(),
	}
}

func (r *MessageVectorRepositoryImpl) Upsert(ctx context.Context, vector *entity.MessageVector) error {
	m, err := r.mapper.MessageVectorToModel(vector)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

func (r *MessageVectorRepositoryImpl) DeleteByRoomId(ctx context.Context, roomId int64) error {
	return r.db.WithContext(ctx).Where("room_id = ?", roomId).Delete(&model.MessageVector{}).Error
}
