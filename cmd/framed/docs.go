package main

// General API documentation for swaggo. Run swag against this package to
// regenerate internal/docs.
//
// @title           framed API
// @version         1.0
// @description     HTTP API supplying a photo display with weighted-random catalog assets.
//
// @contact.name   framed maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
