package main

import (
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/jirasearch/pkg/api"
	"github.com/m-mizutani/jirasearch/pkg/handler"
)

func main() {
	handler.StartLambda(func(env handler.EnvVars) (*gin.Engine, error) {
		api.Logger = handler.Logger
		return api.NewRouter(api.NewJiraHandler(env.Arguments())), nil
	})
}
