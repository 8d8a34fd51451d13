package users

// ユーザー作成・更新リクエスト
// PATCH では両フィールドとも省略可（省略されたものは据え置き）
type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
