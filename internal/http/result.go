package httpapi

// Result response envelope shared by every JSON endpoint
// - code: 2000 on success, -1 on error
// - type: 'success' | 'error'
// - message: string
// - result: any
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// RuleDetail result payload of a validation failure
type RuleDetail struct {
	Rule string `json:"rule"`
}

// FailRule validation failure naming the rule that rejected the input
func FailRule(message, rule string) Result[RuleDetail] {
	return Result[RuleDetail]{Code: ResultError, Type: "error", Message: message, Result: RuleDetail{Rule: rule}}
}
