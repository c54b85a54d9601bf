package mock

import (
	"context"
	"errors"

	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/pkg/models"
)

// JiraClient is on memory adaptor.JiraClient. Every method call is recorded to Calls.
type JiraClient struct {
	Endpoint string
	Token    string

	Filters     []models.RemoteFilter
	Issues      []models.RemoteIssue
	Statuses    []models.RemoteConstant
	Resolutions []models.RemoteConstant
	Priorities  []models.RemoteConstant

	// Errors makes the method fail with the error. Key is method name.
	Errors map[string]error

	Calls []Call
}

// Call is a record of JiraClient method call.
type Call struct {
	Method string
	Args   []interface{}
}

// NewJiraClientFactory returns factory that always returns client.
func NewJiraClientFactory(client *JiraClient) adaptor.JiraClientFactory {
	return func(endpoint string) adaptor.JiraClient {
		client.Endpoint = endpoint
		return client
	}
}

// Count returns number of calls of the method
func (x *JiraClient) Count(method string) int {
	n := 0
	for _, c := range x.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (x *JiraClient) record(method string, args ...interface{}) error {
	x.Calls = append(x.Calls, Call{Method: method, Args: args})
	if err, ok := x.Errors[method]; ok {
		return err
	}
	return nil
}

func (x *JiraClient) checkToken(token string) error {
	if token != x.Token {
		return errors.New("invalid session token")
	}
	return nil
}

func (x *JiraClient) Login(ctx context.Context, username, password string) (string, error) {
	if err := x.record("login", username, password); err != nil {
		return "", err
	}
	return x.Token, nil
}

func (x *JiraClient) GetFavouriteFilters(ctx context.Context, token string) ([]models.RemoteFilter, error) {
	if err := x.record("getFavouriteFilters", token); err != nil {
		return nil, err
	}
	return x.Filters, x.checkToken(token)
}

func (x *JiraClient) GetIssuesFromFilter(ctx context.Context, token, filterID string) ([]models.RemoteIssue, error) {
	if err := x.record("getIssuesFromFilter", token, filterID); err != nil {
		return nil, err
	}
	return x.Issues, x.checkToken(token)
}

func (x *JiraClient) GetIssuesFromTextSearch(ctx context.Context, token, terms string, maxResults int) ([]models.RemoteIssue, error) {
	if err := x.record("getIssuesFromTextSearch", token, terms, maxResults); err != nil {
		return nil, err
	}
	return x.Issues, x.checkToken(token)
}

func (x *JiraClient) GetIssuesFromJqlSearch(ctx context.Context, token, jql string, maxResults int) ([]models.RemoteIssue, error) {
	if err := x.record("getIssuesFromJqlSearch", token, jql, maxResults); err != nil {
		return nil, err
	}
	return x.Issues, x.checkToken(token)
}

func (x *JiraClient) GetStatuses(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	if err := x.record("getStatuses", token); err != nil {
		return nil, err
	}
	return x.Statuses, x.checkToken(token)
}

func (x *JiraClient) GetResolutions(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	if err := x.record("getResolutions", token); err != nil {
		return nil, err
	}
	return x.Resolutions, x.checkToken(token)
}

func (x *JiraClient) GetPriorities(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	if err := x.record("getPriorities", token); err != nil {
		return nil, err
	}
	return x.Priorities, x.checkToken(token)
}
