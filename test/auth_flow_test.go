package test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hrstack/onboarding-service/internal/dto"
)

func (s *IntegrationTestSuite) registerUser(email, password, role string) dto.UserResponse {
	resp := s.doRequest(http.MethodPost, "/auth/register", "", dto.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: "Integration",
		LastName:  "Test",
		Role:      role,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	user := dto.UserResponse{}
	s.decodeData(resp, &user)
	return user
}

func (s *IntegrationTestSuite) login(email, password string) dto.LoginResponse {
	resp := s.doRequest(http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	login := dto.LoginResponse{}
	s.decodeData(resp, &login)
	return login
}

func (s *IntegrationTestSuite) Test_Login() {
	email := fmt.Sprintf("login-%d@example.com", time.Now().UnixNano())
	s.registerUser(email, "secret123", "")

	type TestCase struct {
		Name           string
		Request        dto.LoginRequest
		ExpectedStatus int
	}

	testCases := []TestCase{
		{
			Name: "Valid request",
			Request: dto.LoginRequest{
				Email:    email,
				Password: "secret123",
			},
			ExpectedStatus: http.StatusOK,
		},
		{
			Name: "Wrong password",
			Request: dto.LoginRequest{
				Email:    email,
				Password: "nope",
			},
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name: "Unknown email",
			Request: dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "secret123",
			},
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "Missing fields",
			Request:        dto.LoginRequest{},
			ExpectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			resp := s.doRequest(http.MethodPost, "/auth/login", "", tc.Request)
			defer resp.Body.Close()

			s.Equal(tc.ExpectedStatus, resp.StatusCode)
		})
	}
}

func (s *IntegrationTestSuite) Test_SessionLifecycle() {
	email := fmt.Sprintf("session-%d@example.com", time.Now().UnixNano())
	s.registerUser(email, "secret123", "")

	login := s.login(email, "secret123")

	// The token works against a protected endpoint.
	resp := s.doRequest(http.MethodGet, "/auth/me", login.Token, nil)
	me := dto.UserResponse{}
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decodeData(resp, &me)
	s.Equal(email, me.Email)

	// Refresh keeps the session but swaps the token.
	resp = s.doRequest(http.MethodPost, "/auth/refresh", "", dto.RefreshRequest{Token: login.Token})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	refreshed := dto.LoginResponse{}
	s.decodeData(resp, &refreshed)
	s.Equal(login.SessionID, refreshed.SessionID)
	s.NotEqual(login.Token, refreshed.Token)

	resp = s.doRequest(http.MethodGet, "/auth/me", login.Token, nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Logout kills the refreshed token too.
	resp = s.doRequest(http.MethodPost, "/auth/logout", refreshed.Token, nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.doRequest(http.MethodGet, "/auth/me", refreshed.Token, nil)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) Test_AccountLockout() {
	email := fmt.Sprintf("lockout-%d@example.com", time.Now().UnixNano())
	s.registerUser(email, "secret123", "")

	for i := 0; i < 4; i++ {
		resp := s.doRequest(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: "wrong"})
		resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	}

	resp := s.doRequest(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: "wrong"})
	resp.Body.Close()
	s.Equal(http.StatusLocked, resp.StatusCode)

	// The right password does not get through a locked account.
	resp = s.doRequest(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: "secret123"})
	resp.Body.Close()
	s.Equal(http.StatusLocked, resp.StatusCode)
}
