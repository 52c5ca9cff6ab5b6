package bootstrap

import (
	"github.com/gearshelf/gearshelf/mongo"
	"github.com/rs/zerolog"
)

type Application struct {
	Env   *Env
	Mongo mongo.Client
	Log   zerolog.Logger
}

func App() Application {
	app := &Application{}
	app.Env = NewEnv()
	app.Log = NewLogger(app.Env)
	app.Mongo = NewMongoDatabase(app.Env)
	return *app
}

func (app *Application) CloseDBConnection() {
	CloseMongoDBConnection(app.Mongo)
}
