package model

// Role 使用者角色
type Role string

const (
	RoleUser       Role = "user"
	RolePremium    Role = "premium"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// IsValid 驗證角色是否有效
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RolePremium, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Identity 目前呼叫者，由認證層注入，核心只讀取不驗證
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	CartID string `json:"cart,omitempty"`
}

// User 使用者資料(由註冊流程建立，這裡只讀取)
type User struct {
	ID        string `json:"id" bson:"_id"`
	FirstName string `json:"first_name" bson:"firstName"`
	LastName  string `json:"last_name" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	Role      Role   `json:"role" bson:"rol"`
	CartID    string `json:"cart" bson:"cart"`
}
