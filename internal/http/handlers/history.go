package handlers

import (
	"net/http"

	"videostudio/internal/domain"
)

type historyResponse struct {
	Items []domain.VideoRecord `json:"items"`
}

func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Videos.History(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.VideoRecord{}
	}
	a.json(w, http.StatusOK, historyResponse{Items: items})
}

func (a *App) HistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := a.Videos.ClearHistory(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}
