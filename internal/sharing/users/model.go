package users

// User は users テーブルの1行を表す
type User struct {
	UserID int64
	Name   string
	Email  string
}

func (u *User) toDTO() UserResponse {
	return UserResponse{
		ID:    u.UserID,
		Name:  u.Name,
		Email: u.Email,
	}
}
