package domain

import "Stormhold/internal/kit/errx"

const (
	CodeArmyNotFound errx.Code = "ARMY_NOT_FOUND"
	CodeArmyBusy     errx.Code = "ARMY_BUSY"
	CodeArmyEmpty    errx.Code = "ARMY_EMPTY"
	CodeForbidden    errx.Code = "ARMY_FORBIDDEN"
	CodeBadOrder     errx.Code = "ARMY_BAD_ORDER"
)

var (
	ErrArmyNotFound = errx.NewBiz(CodeArmyNotFound, "军队不存在")
	ErrArmyBusy     = errx.NewBiz(CodeArmyBusy, "军队正在执行任务")
	ErrArmyEmpty    = errx.NewBiz(CodeArmyEmpty, "军队没有可出征的兵力")
	ErrForbidden    = errx.NewBiz(CodeForbidden, "无权操作该军队")
	ErrBadOrder     = errx.NewBiz(CodeBadOrder, "当前状态不允许该指令")
)
