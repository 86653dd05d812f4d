// Package config provides type-safe environment variable loading with
// per-type caching, built on caarlos0/env and godotenv.
//
// A .env file in the working directory is loaded once, lazily, on the first
// Load or MustLoad call. Each distinct struct type is parsed once and then
// served from an in-memory cache:
//
//	type ServerConfig struct {
//		Addr string `env:"ADDR" envDefault:":8080"`
//		Token string `env:"AUTH_TOKEN,required"`
//	}
//
//	cfg := config.MustLoad[ServerConfig]()
package config
