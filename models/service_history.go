package models

// ChatParams 描述一次提问的请求体
type ChatParams struct {
	Question string `json:"question" form:"question"`
}

// ChatResult 是一次提问成功后的返回
type ChatResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// HistoryResult 返回当前会话的完整记录
type HistoryResult struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Messages  []Turn `json:"messages" yaml:"messages"`
}

// SessionResult 是重置会话后的返回
type SessionResult struct {
	SessionID string `json:"session_id"`
}

// ErrorResult 是 JSON API 的错误返回
type ErrorResult struct {
	Error string `json:"error"`
}
