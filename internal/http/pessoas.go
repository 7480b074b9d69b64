package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/turmab/helpdesk/internal/chamado"
	"github.com/turmab/helpdesk/internal/errs"
	httpmiddleware "github.com/turmab/helpdesk/internal/http/middleware"
	"github.com/turmab/helpdesk/internal/pessoa"
	"github.com/turmab/helpdesk/internal/util"
)

// pessoaHandler expõe o CRUD de um perfil; técnicos e clientes usam a mesma estrutura.
type pessoaHandler struct {
	svc      *pessoa.Service
	chamados *chamado.Service
}

// mount registra as rotas; escrita exige uma das autoridades informadas.
func (ph *pessoaHandler) mount(r chi.Router, writers []string) {
	r.Get("/", ph.list)
	r.Get("/{id}", ph.get)
	r.Get("/{id}/chamados", ph.listChamados)

	r.Group(func(w chi.Router) {
		w.Use(httpmiddleware.RequireAuthority(writers...))
		w.Post("/", ph.create)
		w.Put("/{id}", ph.update)
		w.Delete("/{id}", ph.delete)
	})
}

func (ph *pessoaHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := ph.svc.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPessoaResponse(p))
}

func (ph *pessoaHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := ph.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPessoaResponses(list))
}

func (ph *pessoaHandler) create(w http.ResponseWriter, r *http.Request) {
	var body pessoaRequest
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := util.ValidateStruct(body); err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := ph.svc.Create(r.Context(), body.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, r, p.ID.String())
}

func (ph *pessoaHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var body pessoaRequest
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := util.ValidateStruct(body); err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := ph.svc.Update(r.Context(), id, body.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPessoaResponse(p))
}

func (ph *pessoaHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := ph.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ph *pessoaHandler) listChamados(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var list []chamado.Chamado
	if ph.svc.Perfil() == pessoa.Tecnico {
		list, err = ph.chamados.ListByTecnico(r.Context(), id)
	} else {
		list, err = ph.chamados.ListByCliente(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toChamadoResponses(list))
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Validation("Id inválido: %s", raw)
	}
	return id, nil
}
