// Package rtdb provides trees hosted by the Firebase Realtime Database.
package rtdb

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/tevino/abool"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
	"github.com/safing/treebase/log"
)

// EmulatorHostEnv names the environment variable pointing the client to a
// local database emulator.
const EmulatorHostEnv = "FIREBASE_DATABASE_EMULATOR_HOST"

// App is a session to a hosted database.
type App struct {
	client *db.Client
	closed *abool.AtomicBool
}

func init() {
	_ = tree.Register(config.BackendFirebase, Open)
}

// Open authenticates with the configured credentials and opens a session to
// the configured database.
func Open(ctx context.Context, settings *config.Settings) (tree.App, error) {
	if settings.DatabaseURL == "" {
		return nil, errors.New("rtdb: database url is required")
	}

	opts, err := clientOptions(settings)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: settings.DatabaseURL,
		ProjectID:   settings.ServiceAccount.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("rtdb: failed to initialize app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("rtdb: failed to create database client: %w", err)
	}

	log.Debugf("rtdb: opened session to %s", settings.DatabaseURL)
	return &App{
		client: client,
		closed: abool.New(),
	}, nil
}

func clientOptions(settings *config.Settings) ([]option.ClientOption, error) {
	switch {
	case settings.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(settings.CredentialsFile)}, nil
	case settings.ServiceAccount.Complete():
		keyFile, err := settings.ServiceAccount.KeyFileJSON()
		if err != nil {
			return nil, fmt.Errorf("rtdb: failed to build credentials: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(keyFile)}, nil
	case os.Getenv(EmulatorHostEnv) != "":
		// The emulator accepts any token.
		return []option.ClientOption{
			option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "owner"})),
		}, nil
	default:
		// application default credentials
		return nil, nil
	}
}

// Ref returns a reference to the given path.
func (a *App) Ref(path string) tree.Ref {
	return &Ref{
		app: a,
		ref: a.client.NewRef(path),
	}
}

// Close takes the session offline. The client holds no persistent
// connection, so this only invalidates the refs of the session.
func (a *App) Close(_ context.Context) error {
	if a.closed.SetToIf(false, true) {
		log.Debugf("rtdb: closed session")
	}
	return nil
}

// Ref is a reference to a location in a hosted database.
type Ref struct {
	app *App
	ref *db.Ref
}

// Key returns the last segment of the path.
func (r *Ref) Key() string {
	return r.ref.Key
}

// Path returns the absolute path.
func (r *Ref) Path() string {
	return r.ref.Path
}

// Child returns a reference to a location below this one.
func (r *Ref) Child(path string) tree.Ref {
	return &Ref{
		app: r.app,
		ref: r.ref.Child(path),
	}
}

func (r *Ref) check() error {
	if r.app.closed.IsSet() {
		return tree.ErrClosed
	}
	return tree.ValidatePath(r.ref.Path)
}

// Get reads the value at the location.
func (r *Ref) Get(ctx context.Context) (*tree.Snapshot, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	var value interface{}
	if err := r.ref.Get(ctx, &value); err != nil {
		return nil, err
	}
	return tree.NewSnapshot(r.ref.Key, value), nil
}

// Set replaces the value at the location. A nil value removes it.
func (r *Ref) Set(ctx context.Context, value interface{}) error {
	if err := r.check(); err != nil {
		return err
	}

	normalized, err := tree.Normalize(value)
	if err != nil {
		return err
	}
	if normalized == nil {
		return r.ref.Delete(ctx)
	}
	return r.ref.Set(ctx, normalized)
}

// Push stores the value under a new key generated by the server.
func (r *Ref) Push(ctx context.Context, value interface{}) (tree.Ref, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	normalized, err := tree.Normalize(value)
	if err != nil {
		return nil, err
	}
	pushed, err := r.ref.Push(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return &Ref{
		app: r.app,
		ref: pushed,
	}, nil
}

// Remove removes the value at the location.
func (r *Ref) Remove(ctx context.Context) error {
	if err := r.check(); err != nil {
		return err
	}
	return r.ref.Delete(ctx)
}
