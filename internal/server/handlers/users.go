package handlers

import (
	"net/http"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/server/identity/session"
)

// Register - хэндлер для регистрации пользователя в системе. Если пользователь успешно зарегистрирован,
// то в заголовок ответа устанавливается токен пользователя.
func Register(res http.ResponseWriter, req *http.Request, sessions *session.Service) {
	var regData identity.IdentityData
	if err := decode(req, &regData); err != nil {
		writeError(res, req, "failed to parse identity data", err)
		return
	}

	u, tok, err := sessions.Register(req.Context(), regData.Login, regData.Password)
	if err != nil {
		writeError(res, req, "register user error", err)
		return
	}

	// устанавливаю токен в заголовок
	header.SetToken(res.Header(), tok)
	writeJSON(res, req, identity.UserInfo{ID: u.ID, Login: u.Login})
}

// RegisterHandler - обертка над Register.
func RegisterHandler(sessions *session.Service) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		Register(res, req, sessions)
	}
	return fn
}

// Login - хэндлер для входа пользователя. Каждый вход выдает новый токен, ранее выданные продолжают действовать.
func Login(res http.ResponseWriter, req *http.Request, sessions *session.Service) {
	var regData identity.IdentityData
	if err := decode(req, &regData); err != nil {
		writeError(res, req, "failed to parse identity data", err)
		return
	}

	u, tok, err := sessions.Login(req.Context(), regData.Login, regData.Password)
	if err != nil {
		writeError(res, req, "login user error", err)
		return
	}

	header.SetToken(res.Header(), tok)
	writeJSON(res, req, identity.UserInfo{ID: u.ID, Login: u.Login})
}

// LoginHandler - обертка над Login.
func LoginHandler(sessions *session.Service) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		Login(res, req, sessions)
	}
	return fn
}

// Me - возвращает данные аутентифицированного пользователя.
func Me(res http.ResponseWriter, req *http.Request) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	writeJSON(res, req, identity.UserInfo{ID: u.ID, Login: u.Login})
}

// Logout - отзывает токен, с которым пришел запрос.
func Logout(res http.ResponseWriter, req *http.Request, sessions *session.Service) {
	u, tok, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	if err := sessions.Logout(req.Context(), u.ID, tok); err != nil {
		writeError(res, req, "logout user error", err)
		return
	}
	res.WriteHeader(http.StatusOK)
}

// LogoutHandler - обертка над Logout.
func LogoutHandler(sessions *session.Service) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		Logout(res, req, sessions)
	}
	return fn
}

// ChangePassword - заменяет пароль пользователя. Новый токен возвращается в заголовке ответа.
func ChangePassword(res http.ResponseWriter, req *http.Request, sessions *session.Service) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}

	var data identity.PasswordData
	if err := decode(req, &data); err != nil {
		writeError(res, req, "failed to parse password data", err)
		return
	}
	tok, err := sessions.ChangePassword(req.Context(), u.ID, data.Password)
	if err != nil {
		writeError(res, req, "change password error", err)
		return
	}
	// прежние токены отозваны, клиент продолжает работу с новым
	header.SetToken(res.Header(), tok)
	res.WriteHeader(http.StatusOK)
}

// ChangePasswordHandler - обертка над ChangePassword.
func ChangePasswordHandler(sessions *session.Service) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		ChangePassword(res, req, sessions)
	}
	return fn
}
