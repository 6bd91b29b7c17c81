package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           implidx API
// @version         1.0
// @description     HTTP API for documentation implementor-index registration and queries.
//
// @contact.name   implidx maintainers
// @contact.url    https://github.com/your-org/implidx
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
