package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templatesFS embed.FS

// 不开启 WithUnsafe，表格中的原始 HTML 会被过滤掉
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
		"join":     strings.Join,
	}

	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

type layoutData struct {
	AppName string
	Title   string
}

func (h *Handler) layout(title string) layoutData {
	return layoutData{AppName: h.config.App.Name, Title: title}
}

// render 先渲染到缓冲区，模板出错时还能返回 500
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, internalServerErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPageData struct {
	layoutData
	Message string
}

func (h *Handler) serverErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.render(w, r, http.StatusInternalServerError, "error.html", errorPageData{
		layoutData: h.layout("エラー"),
		Message:    internalServerErrorMessage,
	})
}

// redirect 用 303 跳回页面，空值参数不带上
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string, query url.Values) {
	for k, v := range query {
		if len(v) == 0 || v[0] == "" {
			query.Del(k)
		}
	}

	target := path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
