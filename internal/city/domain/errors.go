package domain

import "Stormhold/internal/kit/errx"

// 城市域错误码。入队类校验全部发生在状态变更之前。
type Code = errx.Code

const (
	CodeCityNotFound          Code = "CITY_NOT_FOUND"
	CodeBuildingNotFound      Code = "CITY_BUILDING_NOT_FOUND"
	CodeInsufficientResources Code = "CITY_INSUFFICIENT_RESOURCES"
	CodeQueueFull             Code = "CITY_QUEUE_FULL"
	CodeLevelCapExceeded      Code = "CITY_LEVEL_CAP_EXCEEDED"
	CodeForbidden             Code = "CITY_FORBIDDEN"
)

var (
	ErrCityNotFound          = errx.NewBiz(CodeCityNotFound, "城市不存在")
	ErrBuildingNotFound      = errx.NewBiz(CodeBuildingNotFound, "建筑不存在")
	ErrInsufficientResources = errx.NewBiz(CodeInsufficientResources, "资源不足")
	ErrQueueFull             = errx.NewBiz(CodeQueueFull, "队列已满")
	ErrLevelCapExceeded      = errx.NewBiz(CodeLevelCapExceeded, "超过等级上限")
	ErrForbidden             = errx.NewBiz(CodeForbidden, "无权操作该城市")
)
