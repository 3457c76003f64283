// Package policy holds the role checks that gate mutating operations.
// Every check is a pure function of the caller identity; a violation is
// reported as apperrors.ErrForbidden and the operation must not run.
package policy

import (
	"fmt"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"
)

func hasRole(user *model.Identity, roles ...model.Role) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

func deny(action string) error {
	return apperrors.ErrForbidden.WithCause(fmt.Sprintf("role not allowed to %s", action))
}

// CanCreateCart admin 與 superAdmin 才能建立購物車
func CanCreateCart(user *model.Identity) error {
	if !hasRole(user, model.RoleAdmin, model.RoleSuperAdmin) {
		return deny("create carts")
	}
	return nil
}

// CanMutateCartContents 只有一般購買者(user, premium)可以修改購物車內容與結帳
func CanMutateCartContents(user *model.Identity) error {
	if !hasRole(user, model.RoleUser, model.RolePremium) {
		return deny("modify cart contents")
	}
	return nil
}

// CanCreateProduct premium 以上可以上架商品
func CanCreateProduct(user *model.Identity) error {
	if !hasRole(user, model.RolePremium, model.RoleAdmin, model.RoleSuperAdmin) {
		return deny("create products")
	}
	return nil
}

// CanUpdateProduct 只有管理者可以修改商品
func CanUpdateProduct(user *model.Identity) error {
	if !hasRole(user, model.RoleAdmin, model.RoleSuperAdmin) {
		return deny("update products")
	}
	return nil
}

// CanDeleteProduct 管理者可刪除任何商品，其他人只能刪除自己上架的
func CanDeleteProduct(user *model.Identity, product *model.Product) error {
	if IsPrivileged(user) {
		return nil
	}
	if user != nil && product.IsOwnedBy(user.Email) {
		return nil
	}
	return deny("delete this product")
}

// CanViewTicket 購買者本人或管理者
func CanViewTicket(user *model.Identity, ticket *model.Ticket) error {
	if IsPrivileged(user) {
		return nil
	}
	if user != nil && user.Email != "" && ticket.Purchaser == user.Email {
		return nil
	}
	return deny("view this ticket")
}

// RequireIdentity 需要登入
func RequireIdentity(user *model.Identity) error {
	if user == nil {
		return deny("access this resource anonymously")
	}
	return nil
}

// IsPrivileged admin 或 superAdmin
func IsPrivileged(user *model.Identity) bool {
	return hasRole(user, model.RoleAdmin, model.RoleSuperAdmin)
}
