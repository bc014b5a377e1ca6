package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/och-dev/shiftkun/internal/utils"
)

// 外部传入的 X-Request-ID 超过这个长度就重新生成，防止日志注入
const requestIDMaxLen = 64

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)

		ctx := context.WithValue(r.Context(), RequestIDCtxKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration, "request_id", requestIDFrom(r))
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				err := fmt.Errorf("panic: %v", err)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					h.internalServerError(w, r, err)
				} else {
					h.serverErrorPage(w, r, err)
				}
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// bodyLimit 限制请求体大小，备份恢复的上传文件也受这个限制
func (h *Handler) bodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// month 从 URL 中取出对象月份并放到 context 中
func (h *Handler) month(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := url.PathUnescape(chi.URLParam(r, "month"))
		if err != nil {
			h.errorResponse(w, r, utils.ErrInvalidMonth.Error())
			return
		}

		month, err := utils.NormalizeMonth(raw)
		if err != nil {
			h.errorResponse(w, r, utils.ErrInvalidMonth.Error())
			return
		}

		ctx := context.WithValue(r.Context(), MonthCtxKey, month)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
