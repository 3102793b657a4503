package tests

import (
	"net/http"
	"strings"
	"testing"

	echoapi "github.com/trezcool/wasilisha/apps/portal/echo"
	"github.com/trezcool/wasilisha/core/user"
	emailsvc "github.com/trezcool/wasilisha/services/email"
	testutil "github.com/trezcool/wasilisha/tests"
)

func Test_userApi_register(t *testing.T) {
	resetState()

	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.cd", "pwd", user.RoleStudent)

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": reqMsg, "email": reqMsg, "password": reqMsg}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.NewUser{Name: "Hero", Email: "lol", Password: "pwd"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "duplicate email", wantCode: http.StatusConflict,
			body:     marchallObj(t, user.NewUser{Name: "Hero", Email: "taken@test.cd", Password: "pwd"}),
			wantData: marchallObj(t, httpErr{Error: "a user with this email already exists"}),
		},
		{name: "registered", wantCode: http.StatusCreated, body: marchallObj(t, user.NewUser{Name: "Hero", Email: "hero@test.cd", Password: "LolCat123"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/register"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var usr user.User
				decodeBody(t, rec, &usr)
				if usr.ID == 0 {
					t.Error("failed! created user has no ID")
				}
				if usr.Role != user.RoleStudent {
					t.Errorf("failed! role = %q; want %q", usr.Role, user.RoleStudent)
				}
				if strings.Contains(rec.Body.String(), "password") {
					t.Error("failed! response leaks the password field")
				}
				if len(emailsvc.SentMessages) != 1 {
					t.Errorf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_login(t *testing.T) {
	resetState()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "LolCat123", user.RoleStudent)
	badCreds := marchallObj(t, httpErr{Error: "invalid credentials or wrong role selected"})

	tests := []httpTest{
		{
			name: "unknown email", wantCode: http.StatusUnauthorized,
			body:     marchallObj(t, user.Login{Email: "lol@test.cd", Password: "LolCat123", Role: user.RoleStudent}),
			wantData: badCreds,
		},
		{
			name: "wrong role selected", wantCode: http.StatusUnauthorized,
			body:     marchallObj(t, user.Login{Email: "hero@test.cd", Password: "LolCat123", Role: user.RoleFaculty}),
			wantData: badCreds,
		},
		{
			name: "wrong password", wantCode: http.StatusUnauthorized,
			body:     marchallObj(t, user.Login{Email: "hero@test.cd", Password: "lol", Role: user.RoleStudent}),
			wantData: badCreds,
		},
		{
			name: "unknown role", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.Login{Email: "hero@test.cd", Password: "LolCat123", Role: "admin"}),
			wantData: marchallObj(t, map[string]string{"role": "role must be one of [student faculty]"}),
		},
		{
			name: "logged in", wantCode: http.StatusOK,
			body: marchallObj(t, user.Login{Email: "hero@test.cd", Password: "LolCat123", Role: user.RoleStudent}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var respData echoapi.LoginResponse
				decodeBody(t, rec, &respData)
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				if respData.User.ID != student.ID {
					t.Errorf("failed! user ID = %d; want %d", respData.User.ID, student.ID)
				}

				var sessionCookie *http.Cookie
				for _, c := range rec.Result().Cookies() {
					if c.Name == "session" {
						sessionCookie = c
					}
				}
				if sessionCookie == nil {
					t.Fatal("failed! no session cookie set")
				}
				if sessionCookie.Value != respData.Token {
					t.Error("failed! session cookie does not carry the token")
				}
				if !sessionCookie.HttpOnly {
					t.Error("failed! session cookie is not HttpOnly")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_logout(t *testing.T) {
	resetState()

	req, rec := newRequest(http.MethodGet, "/logout")
	app.ServeHTTP(rec, req)

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, map[string]string{"message": "logged out successfully"})}
	checkCodeAndData(t, tt, rec)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("failed! no session cookie set")
	}
	if sessionCookie.Value != "" || sessionCookie.MaxAge >= 0 {
		t.Error("failed! session cookie not expired")
	}
}

func Test_userApi_dashboard(t *testing.T) {
	resetState()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student redirect", token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"name": student.Name, "role": user.RoleStudent, "redirect": "/student"}),
		},
		{
			name: "faculty redirect", token: getToken(t, faculty), wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]string{"name": faculty.Name, "role": user.RoleFaculty, "redirect": "/faculty"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/dashboard"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
