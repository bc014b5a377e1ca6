package handler

import "net/http"

type ContextKey string

var (
	RequestIDCtxKey ContextKey = "requestID"
	MonthCtxKey     ContextKey = "month"
)

func requestIDFrom(r *http.Request) string {
	rid, _ := r.Context().Value(RequestIDCtxKey).(string)
	return rid
}

func monthFrom(r *http.Request) string {
	month, _ := r.Context().Value(MonthCtxKey).(string)
	return month
}
