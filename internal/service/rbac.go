package service

import (
	"sort"

	"github.com/turmab/helpdesk/internal/auth"
	"github.com/turmab/helpdesk/internal/pessoa"
)

// Action identifica uma operação protegida por autoridade.
type Action string

const (
	ActionManageTecnicos Action = "tecnicos:write"
	ActionManageClientes Action = "clientes:write"
	ActionDeleteChamado  Action = "chamados:delete"
)

// RBACService guarda a tabela ação -> autoridades aceitas.
type RBACService struct {
	policies map[Action][]string
}

// NewRBACService cria a tabela padrão.
func NewRBACService() *RBACService {
	return &RBACService{policies: map[Action][]string{
		ActionManageTecnicos: {pessoa.RoleAdmin},
		ActionManageClientes: {pessoa.RoleAdmin, pessoa.RoleTecnico},
		ActionDeleteChamado:  {pessoa.RoleAdmin},
	}}
}

// Authorities devolve as autoridades aceitas para a ação.
func (s *RBACService) Authorities(action Action) []string {
	return append([]string(nil), s.policies[action]...)
}

// Can indica se o principal pode executar a ação.
func (s *RBACService) Can(p *auth.Principal, action Action) bool {
	required, ok := s.policies[action]
	if !ok {
		return false
	}
	return p.HasAuthority(required...)
}

// Allowed lista as ações liberadas para o principal, em ordem.
func (s *RBACService) Allowed(p *auth.Principal) []Action {
	out := make([]Action, 0, len(s.policies))
	for action := range s.policies {
		if s.Can(p, action) {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
