package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/m-mizutani/jirasearch/pkg/handler"
	"github.com/m-mizutani/jirasearch/pkg/soapsearch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Response is
type Response struct {
	Code    int
	Message interface{}
}

// Handler is interface of API endpoints
type Handler interface {
	GetJQL(c *gin.Context) (*Response, Error)
	GetSOAP(c *gin.Context) (*Response, Error)
}

// JiraHandler runs an invocation of search adapters per request. Args is a template of the
// invocation and copied for each request.
type JiraHandler struct {
	Args handler.Arguments
}

// NewJiraHandler is constructor of JiraHandler
func NewJiraHandler(args handler.Arguments) *JiraHandler {
	return &JiraHandler{Args: args}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader("x-request-id"); id != "" {
		return id
	}
	return uuid.New().String()
}

func (x *JiraHandler) invocation(c *gin.Context) *handler.Arguments {
	args := x.Args
	args.Logger = handler.Logger.WithField("request_id", requestID(c))
	if filter, ok := c.GetQuery("filter"); ok {
		args.Filter = filter
	}
	return &args
}

func (x *JiraHandler) execute(c *gin.Context, search handler.Searcher) (*Response, Error) {
	args := x.invocation(c)
	result, err := args.Execute(c.Request.Context(), search)
	if err != nil {
		if errors.Cause(err) == soapsearch.ErrInvalidArgument {
			return nil, wrapUserError(err, "Invalid request")
		}
		return nil, wrapSystemError(err, http.StatusBadGateway, "Search failed")
	}

	return &Response{Code: http.StatusOK, Message: result}, nil
}

// GetJQL runs JQL query by XML search endpoint. Default query is used if no query.
func (x *JiraHandler) GetJQL(c *gin.Context) (*Response, Error) {
	return x.execute(c, handler.XMLSearch(c.Query("query")))
}

// GetSOAP runs a verb of RPC service
func (x *JiraHandler) GetSOAP(c *gin.Context) (*Response, Error) {
	verb := soapsearch.Verb(c.Param("verb"))
	arg := c.Query("arg")
	if err := soapsearch.ValidateArgs(verb, arg); err != nil {
		return nil, newUserErrorf(http.StatusBadRequest, "%s", err.Error())
	}

	return x.execute(c, handler.SOAPSearch(verb, arg))
}

func sendResponse(c *gin.Context, resp *Response, err Error) {
	var code int
	if resp != nil {
		code = resp.Code
	}

	Logger.WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"request_id": c.GetHeader("x-request-id"),
		"ipaddr":     c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
		"resp_code":  code,
		"error":      err,
	}).Info("Audit log")

	if err != nil {
		Logger.WithFields(logrus.Fields{
			"error":  err,
			"params": c.Params,
			"url":    c.Request.URL,
		}).Error("Request failed")
		c.JSON(err.Code(), gin.H{"message": err.Message()})
	} else {
		c.JSON(resp.Code, resp.Message)
	}
}
