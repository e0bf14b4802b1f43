package model

import (
	"gorm.io/gorm"
)

// DecideVisibility 可见性判定表（首个命中生效），纯函数
// 返回是否可见与拒绝原因码；isFriend由调用方查询后传入，
// 保证一次判定只读一个一致视图
func DecideVisibility(viewerID *int64, ownerID int64, visibility string, isFriend bool) (bool, string) {
	if visibility == VisibilityPublic {
		return true, ""
	}
	// 匿名访问者对非公开内容一律不可见
	if viewerID == nil {
		if visibility == VisibilityFriends {
			return false, DenyReasonFriendsOnly
		}
		return false, DenyReasonOwnerOnly
	}
	if *viewerID == ownerID {
		return true, ""
	}
	switch visibility {
	case VisibilityPrivate:
		return false, DenyReasonOwnerOnly
	case VisibilityFriends:
		if isFriend {
			return true, ""
		}
		return false, DenyReasonFriendsOnly
	default:
		// 未知可见性按最严格处理
		return false, DenyReasonOwnerOnly
	}
}

// QueryFilter 可见性过滤器
// 同一份规则的两种形态：Scope编译为存储层查询条件用于批量列表，
// Allows是逐行的纯谓词；两者与单条判定DecideVisibility必须等价
type QueryFilter struct {
	ViewerID *int64
}

// Allows 逐行谓词：public ∨ owner==viewer ∨ (friends ∧ 已接受好友关系)
func (f *QueryFilter) Allows(ownerID int64, visibility string, isFriend bool) bool {
	allowed, _ := DecideVisibility(f.ViewerID, ownerID, visibility, isFriend)
	return allowed
}

// Scope 编译为GORM查询条件，与Allows逐行等价
// 好友分支用规范化无序对上的EXISTS子查询，单索引命中
func (f *QueryFilter) Scope() func(*gorm.DB) *gorm.DB {
	viewerID := f.ViewerID
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == nil {
			return db.Where("posts.visibility = ?", VisibilityPublic)
		}
		return db.Where(
			"posts.visibility = ? OR posts.author_id = ? OR (posts.visibility = ? AND EXISTS ("+
				"SELECT 1 FROM friendships WHERE friendships.pair_min_id = LEAST(posts.author_id, ?) "+
				"AND friendships.pair_max_id = GREATEST(posts.author_id, ?) AND friendships.status = ?))",
			VisibilityPublic, *viewerID, VisibilityFriends, *viewerID, *viewerID, "accepted",
		)
	}
}
