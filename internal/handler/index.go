package handler

import (
	"context"
	"net/http"
	"time"
)

type indexPageData struct {
	layoutData
	MonthChoices []string
}

func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", indexPageData{
		layoutData:   h.layout(""),
		MonthChoices: monthChoices(),
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := h.repository.Ping(ctx); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ok", nil)
}
