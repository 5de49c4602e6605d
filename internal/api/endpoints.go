package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLogin authenticates against the user login endpoint.
func (c *Client) UserLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	var raw loginResponse
	if err := c.sendJSON(ctx, "", http.MethodPost, "/users/login", credentials{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    raw.Token,
		UserID:   raw.userID(),
		Name:     raw.Name,
		Email:    raw.Email,
		Role:     raw.Role,
		UserType: "user",
	}, nil
}

// AdminLogin authenticates against the admin login endpoint. The response
// may carry `adminId` instead of `id`; decoding handles both.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	var raw loginResponse
	if err := c.sendJSON(ctx, "", http.MethodPost, "/admin/login", credentials{Email: email, Password: password}, &raw); err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    raw.Token,
		UserID:   raw.userID(),
		Name:     raw.Name,
		Email:    raw.Email,
		Role:     raw.Role,
		UserType: "admin",
	}, nil
}

// BudgetProfile fetches the persisted monthly plan. A 404 means the user has
// not onboarded yet and is mapped to ErrNoProfile.
func (c *Client) BudgetProfile(ctx context.Context, token, userID string) (*BudgetProfile, error) {
	var p BudgetProfile
	err := c.getJSON(ctx, token, "/budgets/profile/"+url.PathEscape(userID), nil, &p)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	return &p, nil
}

// SubmitOnboarding persists a completed onboarding draft as the user's
// budget profile.
func (c *Client) SubmitOnboarding(ctx context.Context, token, userID string, req OnboardingRequest) error {
	return c.sendJSON(ctx, token, http.MethodPost, "/budgets/onboarding/"+url.PathEscape(userID), req, nil)
}

// UserBudgets lists the user's per-category budgets.
func (c *Client) UserBudgets(ctx context.Context, token, userID string) ([]Budget, error) {
	var out []Budget
	if err := c.getJSON(ctx, token, "/budgets/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists the spending categories known to the backend.
func (c *Client) Categories(ctx context.Context, token string) ([]Category, error) {
	var out []Category
	if err := c.getJSON(ctx, token, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommendations fetches the advisor texts for the user. An empty list is
// normal when the model has nothing to say.
func (c *Client) Recommendations(ctx context.Context, token, userID string) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, token, "/recommendations/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserTransactions returns the full ledger for a user.
func (c *Client) UserTransactions(ctx context.Context, token, userID string) ([]Transaction, error) {
	var out []Transaction
	if err := c.getJSON(ctx, token, "/transactions/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserGoals lists the user's savings goals.
func (c *Client) UserGoals(ctx context.Context, token, userID string) ([]Goal, error) {
	var out []Goal
	if err := c.getJSON(ctx, token, "/goals/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGoal adds a savings goal for the user.
func (c *Client) CreateGoal(ctx context.Context, token, userID string, g GoalRequest) error {
	return c.sendJSON(ctx, token, http.MethodPost, "/goals/user/"+url.PathEscape(userID), g, nil)
}

// UpdateGoal replaces an existing goal.
func (c *Client) UpdateGoal(ctx context.Context, token, goalID string, g GoalRequest) error {
	return c.sendJSON(ctx, token, http.MethodPut, "/goals/"+url.PathEscape(goalID), g, nil)
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, token, goalID string) error {
	return c.do(ctx, token, http.MethodDelete, "/goals/"+url.PathEscape(goalID), nil, nil, "", nil)
}

// GoalPrediction fetches the completion forecast for a goal.
func (c *Client) GoalPrediction(ctx context.Context, token, goalID, userID string) (*GoalPrediction, error) {
	q := url.Values{"userId": {userID}}
	var p GoalPrediction
	if err := c.getJSON(ctx, token, "/goals/"+url.PathEscape(goalID)+"/prediction", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Notifications lists a page of the user's notifications, newest first.
// priority filters to HIGH/MEDIUM/LOW; "ALL" (or empty) disables the filter.
func (c *Client) Notifications(ctx context.Context, token, userID string, page, size int, priority string) ([]Notification, error) {
	if priority == "" {
		priority = "ALL"
	}
	q := url.Values{
		"page":     {strconv.Itoa(page)},
		"size":     {strconv.Itoa(size)},
		"priority": {priority},
	}
	var out []Notification
	if err := c.getJSON(ctx, token, "/notifications/user/"+url.PathEscape(userID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, token, notificationID, userID string) error {
	path := "/notifications/read/" + url.PathEscape(notificationID)
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	return c.do(ctx, token, http.MethodPut, path, nil, nil, "", nil)
}

// Receipts lists the user's stored receipts.
func (c *Client) Receipts(ctx context.Context, token, userID string) ([]Receipt, error) {
	var out []Receipt
	if err := c.getJSON(ctx, token, "/receipts/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns all users. Admin roles only; the backend enforces this
// and the route guard keeps non-admins away from the calling page.
func (c *Client) ListUsers(ctx context.Context, token string) ([]AdminUser, error) {
	var out []AdminUser
	if err := c.getJSON(ctx, token, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, token, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil, "", nil)
}

// IsNotFound reports whether err is a wrapped 404 from the backend.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound || errors.Is(err, ErrNoProfile)
}
