package model

// Actor 当前登录用户的身份信息，由中间件解析后显式传给各 service
type Actor struct {
	ID          uint64
	IsStaff     bool
	IsSuperuser bool
}

func (a Actor) IsPlatformAdmin() bool {
	return a.IsStaff || a.IsSuperuser
}
