package dao

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"orbit-social/apps/relation-service/model"
	"orbit-social/pkg/database"
)

const preferenceCollection = "notification_preferences"

// preferenceDAO 通知偏好数据访问对象
type preferenceDAO struct {
	db *database.MongoDB
}

// NewPreferenceDAO 创建通知偏好DAO实例
func NewPreferenceDAO(db *database.MongoDB) PreferenceDAO {
	return &preferenceDAO{db: db}
}

// GetPreference 获取用户的通知偏好，不存在返回nil
func (d *preferenceDAO) GetPreference(ctx context.Context, userID int64) (*model.NotificationPreference, error) {
	filter := bson.M{"user_id": userID}

	var pref model.NotificationPreference
	err := d.db.GetCollection(preferenceCollection).FindOne(ctx, filter).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询通知偏好失败: %v", err)
	}
	return &pref, nil
}

// UpsertPreference 写入用户的通知偏好（不存在则创建）
func (d *preferenceDAO) UpsertPreference(ctx context.Context, pref *model.NotificationPreference) error {
	filter := bson.M{"user_id": pref.UserID}
	update := bson.M{"$set": bson.M{
		"notifications":          pref.Notifications,
		"message_privacy":        pref.MessagePrivacy,
		"friend_request_privacy": pref.FriendRequestPrivacy,
		"updated_at":             pref.UpdatedAt,
	}}

	_, err := d.db.GetCollection(preferenceCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("写入通知偏好失败: %v", err)
	}
	return nil
}
