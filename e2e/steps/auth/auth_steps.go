package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	LastStatus() int
	GetResponseField(field string) (interface{}, error)
	SetAccessToken(token string)
	SetAdminToken(token string)
	UseAdminToken()
	SetUserID(userID string)
}

// RegisterSteps registers authentication-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, steps.login)
	ctx.Step(`^I log in as admin "([^"]*)" with password "([^"]*)"$`, steps.loginAsAdmin)
	ctx.Step(`^I am using the admin token$`, steps.useAdminToken)
	ctx.Step(`^I attempt to log in as "([^"]*)" with password "([^"]*)"$`, steps.attemptLogin)
	ctx.Step(`^an account "([^"]*)" with password "([^"]*)" and role "([^"]*)" exists$`, steps.createAccount)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) login(ctx context.Context, email, password string) error {
	if err := s.attemptLogin(ctx, email, password); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("login failed with status %d", s.tc.LastStatus())
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	s.tc.SetAccessToken(token.(string))
	if userID, err := s.tc.GetResponseField("user_id"); err == nil {
		s.tc.SetUserID(userID.(string))
	}
	return nil
}

func (s *authSteps) loginAsAdmin(ctx context.Context, email, password string) error {
	if err := s.login(ctx, email, password); err != nil {
		return err
	}
	token, err := s.tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	s.tc.SetAdminToken(token.(string))
	return nil
}

func (s *authSteps) useAdminToken(ctx context.Context) error {
	s.tc.UseAdminToken()
	return nil
}

func (s *authSteps) createAccount(ctx context.Context, email, password, role string) error {
	err := s.tc.POST("/users", map[string]interface{}{
		"email":    email,
		"name":     "E2E User",
		"password": password,
		"role":     role,
	})
	if err != nil {
		return err
	}
	// 409 means the account survives from an earlier scenario, which is fine.
	if s.tc.LastStatus() != 201 && s.tc.LastStatus() != 409 {
		return fmt.Errorf("create account failed with status %d", s.tc.LastStatus())
	}
	return nil
}

func (s *authSteps) attemptLogin(ctx context.Context, email, password string) error {
	return s.tc.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}
