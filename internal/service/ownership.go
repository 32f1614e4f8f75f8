package service

import (
	"github.com/d60-Lab/vidtube/internal/model"
)

// Owned 有唯一所有者的资源：视频、评论、动态、播放列表
type Owned interface {
	OwnedBy() string
}

// Authorize 只有所有者可以修改资源。调用方需先确认资源存在，再调用本函数，最后才执行修改。
func Authorize(resource Owned, actor model.Principal) error {
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	if resource.OwnedBy() != actor.ID {
		return forbidden("only the owner can modify this resource")
	}
	return nil
}

func requireActor(actor model.Principal) error {
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	return nil
}
