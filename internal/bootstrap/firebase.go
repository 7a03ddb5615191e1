package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/cloudnative-denmark/conference-companion/config"
)

// FirebaseClients holds the Admin SDK clients built from one app.
type FirebaseClients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// Close releases the Firestore connection.
func (f *FirebaseClients) Close() error {
	if f == nil || f.Firestore == nil {
		return nil
	}
	return f.Firestore.Close()
}

// InitializeFirebase initializes the Firebase Admin SDK and returns its Auth and Firestore clients.
// Without a credentials file the application default credentials are used.
func InitializeFirebase(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseClients, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return &FirebaseClients{Auth: authClient, Firestore: fs}, nil
}
