package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/internal/repository"
)

// Kind 错误分类，决定对外的 HTTP 状态
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidID
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindInvalidTarget
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidID:
		return "invalid_id"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidTarget:
		return "invalid_target"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error 服务层错误。errors.Is 按 Kind 匹配，Unwrap 暴露底层原因。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInternal        = &Error{Kind: KindInternal, Msg: "internal error"}
	ErrInvalidID       = &Error{Kind: KindInvalidID, Msg: "invalid id"}
	ErrValidation      = &Error{Kind: KindValidation, Msg: "validation failed"}
	ErrNotFound        = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrForbidden       = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Msg: "authentication required"}
	ErrInvalidTarget   = &Error{Kind: KindInvalidTarget, Msg: "invalid target"}
	ErrConflict        = &Error{Kind: KindConflict, Msg: "conflict"}
)

// KindOf 非 *Error 一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func invalidID(name string) error {
	return &Error{Kind: KindInvalidID, Msg: fmt.Sprintf("invalid %s", name)}
}

func validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func internal(op string, err error) error {
	return &Error{Kind: KindInternal, Msg: op, Err: err}
}

// storeErr 把仓储错误翻译成服务错误
func storeErr(what, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what)
	}
	return internal(op, err)
}

// ParseID 在访问存储前校验标识符格式
func ParseID(name, raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", invalidID(name)
	}
	return id.String(), nil
}
