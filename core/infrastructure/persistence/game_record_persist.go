package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chushi0/jp-mahjong-server/common/database"
	"github.com/chushi0/jp-mahjong-server/common/log"
	"github.com/chushi0/jp-mahjong-server/core/domain/entity"
	"github.com/chushi0/jp-mahjong-server/core/domain/repository"
)

const (
	collGameRecords  = "game_records"
	collRoundRecords = "round_records"
)

// GameRecordRepository 对局记录的 MongoDB 实现
// 实体结构自带 bson 标签，直接整文档读写
type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	collection := r.mongo.Db.Collection(collGameRecords)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		log.Error("保存对局记录失败: %v", err)
		return repository.ErrDatabase
	}
	return nil
}

func (r *GameRecordRepository) FindGameRecord(ctx context.Context, recordID primitive.ObjectID) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(collGameRecords)

	var record entity.GameRecord
	err := collection.FindOne(ctx, bson.M{"_id": recordID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, err
	}
	return &record, nil
}

func (r *GameRecordRepository) FindGameRecordsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(collGameRecords)

	filter := bson.M{"players.user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询用户对局记录失败: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*entity.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析对局记录失败: %v", err)
		return nil, err
	}
	return records, nil
}

func (r *GameRecordRepository) FindGameRecordByRoom(ctx context.Context, roomID string) (*entity.GameRecord, error) {
	collection := r.mongo.Db.Collection(collGameRecords)

	var record entity.GameRecord
	err := collection.FindOne(ctx, bson.M{"room_id": roomID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, err
	}
	return &record, nil
}

func (r *GameRecordRepository) SaveRoundRecord(ctx context.Context, round *entity.RoundRecord) error {
	collection := r.mongo.Db.Collection(collRoundRecords)
	if _, err := collection.InsertOne(ctx, round); err != nil {
		log.Error("保存局记录失败: %v", err)
		return repository.ErrDatabase
	}
	return nil
}

func (r *GameRecordRepository) SaveRoundRecords(ctx context.Context, rounds []*entity.RoundRecord) error {
	if len(rounds) == 0 {
		return nil
	}
	collection := r.mongo.Db.Collection(collRoundRecords)

	docs := make([]any, 0, len(rounds))
	for _, round := range rounds {
		if round != nil {
			docs = append(docs, round)
		}
	}
	if len(docs) == 0 {
		return nil
	}

	if _, err := collection.InsertMany(ctx, docs); err != nil {
		log.Error("批量保存局记录失败: %v", err)
		return repository.ErrDatabase
	}
	log.Info("批量保存局记录成功: count=%d", len(docs))
	return nil
}

func (r *GameRecordRepository) FindRoundRecords(ctx context.Context, gameRecordID primitive.ObjectID) ([]*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(collRoundRecords)

	filter := bson.M{"game_record_id": gameRecordID}
	opts := options.Find().SetSort(bson.M{"round_number": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询局记录失败: %v", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var rounds []*entity.RoundRecord
	if err := cursor.All(ctx, &rounds); err != nil {
		log.Error("解析局记录失败: %v", err)
		return nil, err
	}
	return rounds, nil
}

func (r *GameRecordRepository) FindRoundRecord(ctx context.Context, gameRecordID primitive.ObjectID, roundNumber int) (*entity.RoundRecord, error) {
	collection := r.mongo.Db.Collection(collRoundRecords)

	filter := bson.M{
		"game_record_id": gameRecordID,
		"round_number":   roundNumber,
	}

	var round entity.RoundRecord
	err := collection.FindOne(ctx, filter).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询局记录失败: %v", err)
		return nil, err
	}
	return &round, nil
}
