package identity

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds Firebase Auth configuration. The credentials file is optional
// so deployments inside Google infrastructure can rely on ambient
// application-default credentials.
type Config struct {
	CredentialsFile string `env:"FIREBASE_CREDENTIALS"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
}

// FirebaseProvider implements Provider on Firebase Auth.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Firebase app and its auth client.
func NewFirebaseProvider(ctx context.Context, cfg Config) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Join(ErrProviderInit, err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Join(ErrProviderInit, err)
	}

	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password, displayName string) (*User, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, errors.Join(ErrCreateUser, err)
	}

	return &User{UID: rec.UID, Email: email, DisplayName: displayName}, nil
}

func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return errors.Join(ErrDeleteUser, err)
	}
	return nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	return tok.UID, nil
}

func (p *FirebaseProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := p.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", errors.Join(ErrPasswordResetLink, err)
	}
	return link, nil
}
