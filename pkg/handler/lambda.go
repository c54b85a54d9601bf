package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/jirasearch/internal"
	"github.com/sirupsen/logrus"
)

// Logger is common logger gateway
var Logger = internal.Logger

// RouterBuilder creates HTTP router from Lambda environment variables
type RouterBuilder func(env EnvVars) (*gin.Engine, error)

// StartLambda initialize AWS Lambda and serves router behind API Gateway
func StartLambda(build RouterBuilder) {
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.JSONFormatter{})

	var env EnvVars
	if err := env.BindEnvVars(); err != nil {
		internal.HandleError(err)
		Logger.WithError(err).Fatal("Fail to initialize")
	}
	SetLogLevel(env.LogLevel)

	if err := internal.InitErrorHandler(env.SentryDSN, env.SentryEnv); err != nil {
		Logger.WithError(err).Warn("Fail to initialize sentry")
	}

	gin.SetMode(gin.ReleaseMode)
	r, err := build(env)
	if err != nil {
		internal.HandleError(err)
		Logger.WithError(err).Fatal("Fail to build router")
	}
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		defer internal.FlushError()

		Logger.WithFields(logrus.Fields{
			"path":   req.Path,
			"method": req.HTTPMethod,
		}).Debug("Start handler")

		return adapter.Proxy(req)
	})
}

// SetLogLevel changes level of Logger if level is given. Invalid level keeps current one.
func SetLogLevel(level string) {
	if level == "" {
		return
	}
	if err := internal.SetLogLevel(level); err != nil {
		Logger.WithError(err).Warn("Log level is not changed")
	}
}
