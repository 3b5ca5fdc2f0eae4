package main

// General API documentation for swaggo. Run `swag init -g cmd/inferd/main.go`
// and build with -tags=swagger to serve it.
//
// @title           inferd API
// @version         1.0
// @description     HTTP scoring API for a causal language model loaded once at startup.
//
// @contact.name   modelops maintainers
//
// @BasePath  /
//
// @schemes http
