package gate

// Response 统一响应壳：code 为空表示成功。
type Response struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Data: data}
}

func Fail(code, msg string) Response {
	return Response{Code: code, Msg: msg}
}

// BuildReq 建造/升级请求。
type BuildReq struct {
	CityID      int64  `json:"city_id" binding:"required"`
	BuildingKey string `json:"building_key" binding:"required"`
	Slot        int    `json:"slot"`
}

// RecruitReq 征兵请求。
type RecruitReq struct {
	CityID  int64  `json:"city_id" binding:"required"`
	UnitKey string `json:"unit_key" binding:"required"`
	Count   int    `json:"count" binding:"required,gt=0"`
}

// OrderReq 军队指令请求。
type OrderReq struct {
	ArmyID  int64 `json:"army_id" binding:"required"`
	Order   int8  `json:"order" binding:"required"`
	TargetX int   `json:"target_x"`
	TargetY int   `json:"target_y"`
}
