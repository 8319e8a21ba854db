package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           ollamachat API
// @version         1.0
// @description     Chat relay that forwards messages to a local Ollama runtime,
// @description     with model switching restricted to a fixed registry.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @host      127.0.0.1:8000
// @BasePath  /
//
// @schemes http
