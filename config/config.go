package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port string `envconfig:"PORT" default:"8080"`

	JWTSecret    string `envconfig:"JWT_SECRET" default:"change_me"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
