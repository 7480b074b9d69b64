package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turmab/helpdesk/internal/chamado"
	httpmiddleware "github.com/turmab/helpdesk/internal/http/middleware"
	"github.com/turmab/helpdesk/internal/util"
)

type chamadoHandler struct {
	svc *chamado.Service
}

func (ch *chamadoHandler) mount(r chi.Router, deleters []string) {
	r.Get("/", ch.list)
	r.Get("/{id}", ch.get)
	r.Post("/", ch.create)
	r.Put("/{id}", ch.update)
	r.With(httpmiddleware.RequireAuthority(deleters...)).Delete("/{id}", ch.delete)
}

func (ch *chamadoHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := ch.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toChamadoResponse(c))
}

func (ch *chamadoHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := ch.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toChamadoResponses(list))
}

func (ch *chamadoHandler) create(w http.ResponseWriter, r *http.Request) {
	in, err := readChamado(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := ch.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, c.ID.String())
}

func (ch *chamadoHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	in, err := readChamado(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := ch.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toChamadoResponse(c))
}

func (ch *chamadoHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := ch.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readChamado(r *http.Request) (chamado.Input, error) {
	var body chamadoRequest
	if err := decodeJSON(r, &body); err != nil {
		return chamado.Input{}, err
	}
	if err := util.ValidateStruct(body); err != nil {
		return chamado.Input{}, err
	}
	return body.input()
}
