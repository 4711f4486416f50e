package main

import (
	"os"

	"vendor-booking/cmd/cli"

	"github.com/gin-gonic/gin"
)

func init() {
	// debug output stays off unless GIN_MODE asks for it
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           vendor-booking
// @version         1.0
// @description     Wedding vendor availability calendar and booking conflict engine.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cli.Execute()
}
