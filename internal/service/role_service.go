package service

import (
	"context"
	"slices"
	"sort"

	"gorm.io/datatypes"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

// Permissions is the flattened view of a user's roles.
type Permissions struct {
	Roles        []string `json:"roles"`
	Permissions  []string `json:"permissions"`
	IsSuperAdmin bool     `json:"is_super_admin"`
}

// Has reports whether p is granted; a super admin holds every permission.
func (p *Permissions) Has(perm string) bool {
	if p.IsSuperAdmin {
		return true
	}
	_, found := slices.BinarySearch(p.Permissions, perm)
	return found
}

type RoleService struct {
	repo  *store.RoleRepository
	users *store.UserRepository
}

func NewRoleService(repo *store.RoleRepository, users *store.UserRepository) *RoleService {
	return &RoleService{repo: repo, users: users}
}

// ResolvePermissions collects every permission set to true across the
// user's roles, sorted and without duplicates.
func (s *RoleService) ResolvePermissions(ctx context.Context, userID uint64) (*Permissions, error) {
	roles, err := s.repo.RolesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &Permissions{Roles: []string{}, Permissions: []string{}}
	seen := make(map[string]struct{})
	for _, r := range roles {
		out.Roles = append(out.Roles, r.Name)
		if r.Name == model.RoleSuperAdmin {
			out.IsSuperAdmin = true
		}
		for perm, v := range r.Permissions {
			if granted, _ := v.(bool); !granted {
				continue
			}
			if _, dup := seen[perm]; dup {
				continue
			}
			seen[perm] = struct{}{}
			out.Permissions = append(out.Permissions, perm)
		}
	}
	sort.Strings(out.Permissions)
	return out, nil
}

func (s *RoleService) HasPermission(ctx context.Context, userID uint64, perm string) (bool, error) {
	p, err := s.ResolvePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Has(perm), nil
}

type RoleInput struct {
	Name        string          `json:"name" validate:"required,max=64"`
	Description string          `json:"description" validate:"max=500"`
	Permissions map[string]bool `json:"permissions"`
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*model.Role, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	perms := datatypes.JSONMap{}
	for k, v := range in.Permissions {
		if !slices.Contains(model.AllPermissions, k) {
			return nil, invalid("unknown permission %q", k)
		}
		perms[k] = v
	}
	role := &model.Role{Name: in.Name, Description: in.Description, Permissions: perms}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	return s.repo.List(ctx)
}

func (s *RoleService) Assign(ctx context.Context, userID uint64, roleName string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	role, err := s.repo.FindByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.repo.Assign(ctx, userID, role.ID)
}

func (s *RoleService) Revoke(ctx context.Context, userID uint64, roleName string) error {
	role, err := s.repo.FindByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.repo.Revoke(ctx, userID, role.ID)
}
