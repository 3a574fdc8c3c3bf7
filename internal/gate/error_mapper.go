package gate

import (
	"errors"
	"net/http"

	armydom "Stormhold/internal/army/domain"
	citydom "Stormhold/internal/city/domain"
	"Stormhold/internal/kit/errx"
)

// mapError 把领域错误映射为 HTTP 状态码 + 响应壳。
// 业务错误带原始错误码返回；技术错误一律 500，不外泄细节。
func mapError(err error) (int, Response) {
	var e *errx.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, Fail("INTERNAL", "系统繁忙，请稍后重试")
	}

	status := http.StatusInternalServerError
	switch e.Code() {
	case citydom.CodeCityNotFound, citydom.CodeBuildingNotFound, armydom.CodeArmyNotFound:
		status = http.StatusNotFound
	case citydom.CodeForbidden, armydom.CodeForbidden:
		status = http.StatusForbidden
	case citydom.CodeInsufficientResources, citydom.CodeQueueFull, citydom.CodeLevelCapExceeded,
		armydom.CodeArmyBusy, armydom.CodeArmyEmpty, armydom.CodeBadOrder:
		status = http.StatusConflict
	case errx.CodeReqParamError:
		status = http.StatusBadRequest
	default:
		return http.StatusInternalServerError, Fail("INTERNAL", "系统繁忙，请稍后重试")
	}
	return status, Fail(string(e.Code()), e.Msg())
}
