package validator

const PasswordMinLength = 8

const (
	MsgAllFieldsRequired = "all fields are required"
	MsgPasswordMismatch  = "password and confirm password do not match"
	MsgPasswordTooShort  = "password must be at least 8 characters"
	MsgUsernameTaken     = "username already exists"
	MsgEmailTaken        = "email already registered"
	MsgLoginRequired     = "both fields are required"
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// 形式チェックのみ（ユーザー名・emailの重複は usecase でDBを見て足す）
func ValidateRegister(in RegisterInput) Violations {
	var v Violations

	if isBlank(in.Username) || isBlank(in.Email) || in.Password == "" || in.ConfirmPassword == "" {
		v.Add(MsgAllFieldsRequired)
	}
	if in.Password != in.ConfirmPassword {
		v.Add(MsgPasswordMismatch)
	}
	if in.Password != "" && runeLen(in.Password) < PasswordMinLength {
		v.Add(MsgPasswordTooShort)
	}
	if !isBlank(in.Email) && !isEmailLike(in.Email) {
		v.Add(MsgEmailInvalid)
	}

	return v
}

func ValidateLogin(username string, password string) Violations {
	var v Violations
	if isBlank(username) || password == "" {
		v.Add(MsgLoginRequired)
	}
	return v
}
