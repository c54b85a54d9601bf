package adaptor

import (
	"context"
	"encoding/xml"
	"net/http"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

const jiraSOAPNamespace = "http://soap.rpc.jira.atlassian.com"

// JiraClientFactory is interface JiraClient constructor. endpoint is URL of RPC service.
type JiraClientFactory func(endpoint string) JiraClient

// JiraClient is interface of the remote procedure API of Jira
type JiraClient interface {
	Login(ctx context.Context, username, password string) (string, error)
	GetFavouriteFilters(ctx context.Context, token string) ([]models.RemoteFilter, error)
	GetIssuesFromFilter(ctx context.Context, token, filterID string) ([]models.RemoteIssue, error)
	GetIssuesFromTextSearch(ctx context.Context, token, terms string, maxResults int) ([]models.RemoteIssue, error)
	GetIssuesFromJqlSearch(ctx context.Context, token, jql string, maxResults int) ([]models.RemoteIssue, error)
	GetStatuses(ctx context.Context, token string) ([]models.RemoteConstant, error)
	GetResolutions(ctx context.Context, token string) ([]models.RemoteConstant, error)
	GetPriorities(ctx context.Context, token string) ([]models.RemoteConstant, error)
}

// NewJiraClient creates SOAP client of Jira with default http.Client
func NewJiraClient(endpoint string) JiraClient {
	return NewJiraSOAPClient(endpoint, http.DefaultClient)
}

// NewJiraSOAPClient creates SOAP client of Jira with specified http.Client
func NewJiraSOAPClient(endpoint string, httpClient *http.Client) *JiraSOAPClient {
	return &JiraSOAPClient{
		endpoint: endpoint,
		client:   httpClient,
	}
}

// JiraSOAPClient calls Jira RPC methods over SOAP. Both inline and multiRef encoded responses
// are decoded.
type JiraSOAPClient struct {
	endpoint string
	client   HTTPClient
}

type loginRequest struct {
	XMLName  xml.Name `xml:"http://soap.rpc.jira.atlassian.com login"`
	Username string   `xml:"in0"`
	Password string   `xml:"in1"`
}

type loginResponse struct {
	Token string `xml:"loginReturn"`
}

type tokenRequest struct {
	XMLName xml.Name
	Token   string `xml:"in0"`
}

type stringRequest struct {
	XMLName xml.Name
	Token   string `xml:"in0"`
	Arg     string `xml:"in1"`
}

type searchRequest struct {
	XMLName    xml.Name
	Token      string `xml:"in0"`
	Arg        string `xml:"in1"`
	MaxResults int    `xml:"in2"`
}

type arrayResponse[T any] struct {
	Items models.Array[T] `xml:",any"`
}

func methodName(method string) xml.Name {
	return xml.Name{Space: jiraSOAPNamespace, Local: method}
}

func (x *JiraSOAPClient) call(ctx context.Context, method string, req, resp interface{}) error {
	raw, status, err := x.post(ctx, method, req)
	if err != nil {
		return errors.Wrapf(err, "Failed RPC call: %s", method)
	}
	if err := decodeRPCResponse(raw, status, resp); err != nil {
		return errors.Wrapf(err, "Failed RPC call: %s", method)
	}
	return nil
}

// Login authenticates and returns session token
func (x *JiraSOAPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	req := &loginRequest{Username: username, Password: password}
	if err := x.call(ctx, "login", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("Empty session token in login response")
	}
	return resp.Token, nil
}

// GetFavouriteFilters returns saved filters of the login user
func (x *JiraSOAPClient) GetFavouriteFilters(ctx context.Context, token string) ([]models.RemoteFilter, error) {
	var resp arrayResponse[models.RemoteFilter]
	req := &tokenRequest{XMLName: methodName("getFavouriteFilters"), Token: token}
	if err := x.call(ctx, "getFavouriteFilters", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetIssuesFromFilter returns issues of a saved filter
func (x *JiraSOAPClient) GetIssuesFromFilter(ctx context.Context, token, filterID string) ([]models.RemoteIssue, error) {
	var resp arrayResponse[models.RemoteIssue]
	req := &stringRequest{XMLName: methodName("getIssuesFromFilter"), Token: token, Arg: filterID}
	if err := x.call(ctx, "getIssuesFromFilter", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetIssuesFromTextSearch returns issues matched with free text
func (x *JiraSOAPClient) GetIssuesFromTextSearch(ctx context.Context, token, terms string, maxResults int) ([]models.RemoteIssue, error) {
	return x.search(ctx, "getIssuesFromTextSearch", token, terms, maxResults)
}

// GetIssuesFromJqlSearch returns issues matched with JQL
func (x *JiraSOAPClient) GetIssuesFromJqlSearch(ctx context.Context, token, jql string, maxResults int) ([]models.RemoteIssue, error) {
	return x.search(ctx, "getIssuesFromJqlSearch", token, jql, maxResults)
}

func (x *JiraSOAPClient) search(ctx context.Context, method, token, arg string, maxResults int) ([]models.RemoteIssue, error) {
	var resp arrayResponse[models.RemoteIssue]
	req := &searchRequest{XMLName: methodName(method), Token: token, Arg: arg, MaxResults: maxResults}
	if err := x.call(ctx, method, req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetStatuses returns status definitions
func (x *JiraSOAPClient) GetStatuses(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	return x.constants(ctx, "getStatuses", token)
}

// GetResolutions returns resolution definitions
func (x *JiraSOAPClient) GetResolutions(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	return x.constants(ctx, "getResolutions", token)
}

// GetPriorities returns priority definitions
func (x *JiraSOAPClient) GetPriorities(ctx context.Context, token string) ([]models.RemoteConstant, error) {
	return x.constants(ctx, "getPriorities", token)
}

func (x *JiraSOAPClient) constants(ctx context.Context, method, token string) ([]models.RemoteConstant, error) {
	var resp arrayResponse[models.RemoteConstant]
	req := &tokenRequest{XMLName: methodName(method), Token: token}
	if err := x.call(ctx, method, req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
