package handlers

import (
	"net/http"
)

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.Socket.ServeWS(w, r, caller(r))
}
