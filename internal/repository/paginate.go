package repository

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrUnordered skip/limit 必须建立在全序之上
var ErrUnordered = errors.New("paginate: query has no deterministic order")

// Sort 分页排序：主排序列 + id 兜底，二者同向
type Sort struct {
	Column   string
	Desc     bool
	IDColumn string
}

func (s Sort) clause() string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, %s %s", s.Column, dir, s.IDColumn, dir)
}

// PageRequest 页码从 1 开始
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest 非法值回落到默认值
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// ParsePageRequest 解析查询参数；缺省或非数字时使用默认值，limit 不超过 maxLimit
func ParsePageRequest(page, limit string, defaultLimit, maxLimit int) PageRequest {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = DefaultPage
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = defaultLimit
	}
	if l < 1 {
		l = DefaultLimit
	}
	if maxLimit > 0 && l > maxLimit {
		l = maxLimit
	}
	return PageRequest{Page: p, Limit: l}
}

// Offset 以 int64 计算；乘积溢出时饱和到 math.MaxInt64
func (r PageRequest) Offset() int64 {
	if r.Page <= 1 || r.Limit <= 0 {
		return 0
	}
	if int64(r.Page-1) > math.MaxInt64/int64(r.Limit) {
		return math.MaxInt64
	}
	return int64(r.Page-1) * int64(r.Limit)
}

// PageResult 分页结果信封
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageResult 由总数计算页信息
func NewPageResult[T any](items []T, req PageRequest, total int64) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Limit)))
	}
	return &PageResult[T]{
		Items:      items,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}
}

// Map 转换条目类型，保留分页信息
func Map[T, U any](in *PageResult[T], f func(T) U) *PageResult[U] {
	out := make([]U, len(in.Items))
	for i, it := range in.Items {
		out[i] = f(it)
	}
	return &PageResult[U]{
		Items:      out,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalItems: in.TotalItems,
		TotalPages: in.TotalPages,
		HasNext:    in.HasNext,
		HasPrev:    in.HasPrev,
	}
}

// Query 可分页的组合查询。Base 只含过滤条件（用于计数），Project 追加派生列，Sort 必填。
type Query struct {
	Base    *gorm.DB
	Project func(tx *gorm.DB) *gorm.DB
	Sort    Sort
}

// Paginate 先计数，再按全序切片
func Paginate[T any](q Query, req PageRequest) (*PageResult[T], error) {
	if q.Sort.Column == "" || q.Sort.IDColumn == "" {
		return nil, ErrUnordered
	}
	req = NewPageRequest(req.Page, req.Limit)

	base := q.Base.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("paginate count: %w", err)
	}
	offset := req.Offset()
	if total == 0 || offset >= total {
		return NewPageResult[T](nil, req, total), nil
	}

	tx := base
	if q.Project != nil {
		tx = q.Project(tx)
	}
	var items []T
	if err := tx.Order(q.Sort.clause()).Offset(int(offset)).Limit(req.Limit).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("paginate items: %w", err)
	}
	return NewPageResult(items, req, total), nil
}
