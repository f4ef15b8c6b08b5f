package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr      string    `koanf:"addr"`
	Frontend  Frontend  `koanf:"frontend"`
	Schedule  Schedule  `koanf:"schedule"`
	Reminders Reminders `koanf:"reminders"`
	Holidays  Holidays  `koanf:"holidays"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Schedule configures the external event-schedule API this service consumes.
type Schedule struct {
	BaseURL        string `koanf:"baseurl"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type Reminders struct {
	// PollInterval is a cron spec for the due-reminder poll.
	PollInterval string `koanf:"pollinterval"`
}

type Holidays struct {
	Enabled bool `koanf:"enabled"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8282",
		Frontend: Frontend{
			Enabled: true,
		},
		Schedule: Schedule{
			BaseURL:        "http://localhost:8000/events",
			TimeoutSeconds: 15,
		},
		Reminders: Reminders{
			PollInterval: "@every 30s",
		},
		Holidays: Holidays{
			Enabled: true,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "DAYBOARD_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "DAYBOARD_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
