package identity

import (
	"sort"
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

// Role is a user group that grants a fixed set of permissions
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManufacturer Role = "manufacturer"
	RoleEmployee     Role = "employee"
	RoleRetailer     Role = "retailer"
)

// Permission codes follow the resource:action pattern
const (
	PermCompanyRead       = "company:read"
	PermCompanyManage     = "company:manage"
	PermRetailerRead      = "retailer:read"
	PermRetailerManage    = "retailer:manage"
	PermProfileManage     = "profile:manage"
	PermConnectionRequest = "connection:request"
	PermConnectionManage  = "connection:manage"
	PermCatalogRead       = "catalog:read"
	PermCatalogManage     = "catalog:manage"
	PermOrderCreate       = "order:create"
	PermOrderRead         = "order:read"
	PermOrderManage       = "order:manage"
	PermShipmentRead      = "shipment:read"
	PermShipmentManage    = "shipment:manage"
	PermShipmentDeliver   = "shipment:deliver"
	PermWorkforceRead     = "workforce:read"
	PermWorkforceManage   = "workforce:manage"
	PermInvoiceRead       = "invoice:read"
	PermInvoiceManage     = "invoice:manage"
	PermDashboardRead     = "dashboard:read"
)

var rolePermissions = map[Role][]string{
	RoleManufacturer: {
		PermCompanyRead, PermCompanyManage,
		PermRetailerRead, PermRetailerManage,
		PermConnectionManage,
		PermCatalogRead, PermCatalogManage,
		PermOrderCreate, PermOrderRead, PermOrderManage,
		PermShipmentRead, PermShipmentManage,
		PermWorkforceRead, PermWorkforceManage,
		PermInvoiceRead, PermInvoiceManage,
		PermDashboardRead,
	},
	RoleEmployee: {
		PermCatalogRead,
		PermOrderRead,
		PermShipmentRead, PermShipmentDeliver,
	},
	RoleRetailer: {
		PermCompanyRead,
		PermProfileManage,
		PermConnectionRequest,
		PermCatalogRead,
		PermOrderCreate, PermOrderRead,
	},
}

// AllRoles returns every known role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManufacturer, RoleEmployee, RoleRetailer}
}

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManufacturer, RoleEmployee, RoleRetailer:
		return true
	}
	return false
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// Permissions returns the permission codes granted by the role.
// Admin is granted every permission.
func (r Role) Permissions() []string {
	if r == RoleAdmin {
		seen := make(map[string]struct{})
		for _, perms := range rolePermissions {
			for _, p := range perms {
				seen[p] = struct{}{}
			}
		}
		all := make([]string, 0, len(seen))
		for p := range seen {
			all = append(all, p)
		}
		sort.Strings(all)
		return all
	}
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// ParseRoles normalises and validates a list of group names.
// Duplicates are removed; order is preserved.
func ParseRoles(groups []string) ([]Role, error) {
	if len(groups) == 0 {
		return nil, shared.NewDomainError("INVALID_GROUPS", "At least one group is required")
	}
	roles := make([]Role, 0, len(groups))
	seen := make(map[Role]bool, len(groups))
	for _, g := range groups {
		r := Role(strings.ToLower(strings.TrimSpace(g)))
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_GROUPS", "Unknown group: "+g)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		roles = append(roles, r)
	}
	return roles, nil
}

// PermissionsFor returns the union of the permissions of the given roles
func PermissionsFor(roles []Role) []string {
	seen := make(map[string]struct{})
	for _, r := range roles {
		for _, p := range r.Permissions() {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RoleStrings converts roles to their string form
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
