// Package repository is the relation store: point CRUD, conditional
// create/delete keyed by unique constraints, and the join/aggregate queries the
// view composer builds on.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/vidtube/internal/model"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束；需要 gorm.Config.TranslateError
	ErrDuplicate = errors.New("duplicate record")
)

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if notFound(err) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likeColumns 派生 likes_count / is_liked：按目标 id 关联 likes 表，is_liked 相对当前查看者计算
func likeColumns(kind model.TargetKind, table, viewerID string) (string, []interface{}) {
	sql := fmt.Sprintf(
		"(SELECT COUNT(*) FROM likes lc WHERE lc.target_kind = ? AND lc.target_id = %[1]s.id) AS likes_count, "+
			"EXISTS (SELECT 1 FROM likes lv WHERE lv.target_kind = ? AND lv.target_id = %[1]s.id AND lv.liked_by = ?) AS is_liked",
		table)
	return sql, []interface{}{string(kind), string(kind), viewerID}
}
