package model

// Principal 当前请求的操作者，由鉴权层解析后显式传入各服务
type Principal struct {
	ID       string
	Username string
}

// Anonymous 未登录访问者
var Anonymous = Principal{}

func (p Principal) IsAnonymous() bool { return p.ID == "" }
