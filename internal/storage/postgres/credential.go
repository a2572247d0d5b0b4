package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"xedule/internal/domain"
	"xedule/internal/secrets"
)

// CredentialStore keeps per-account publish API secrets, encrypted at
// rest. Only ciphertext ever reaches the database.
type CredentialStore struct {
	db     *sqlx.DB
	cipher *secrets.Cipher
}

func NewCredentialStore(db *sqlx.DB, cipher *secrets.Cipher) *CredentialStore {
	return &CredentialStore{db: db, cipher: cipher}
}

type credentialRow struct {
	AccountID      string `db:"account_id"`
	ConsumerKey    string `db:"consumer_key"`
	ConsumerSecret string `db:"consumer_secret"`
	AccessToken    string `db:"access_token"`
	AccessSecret   string `db:"access_secret"`
}

func (s *CredentialStore) Get(ctx context.Context, accountID string) (*domain.Credentials, error) {
	var row credentialRow
	query := `
		SELECT account_id, consumer_key, consumer_secret, access_token, access_secret
		FROM account_credentials
		WHERE account_id = $1`

	err := s.db.GetContext(ctx, &row, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.decrypt(row)
}

func (s *CredentialStore) Upsert(ctx context.Context, creds *domain.Credentials) error {
	row, err := s.encrypt(creds)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO account_credentials (
			account_id, consumer_key, consumer_secret, access_token, access_secret
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE SET
			consumer_key = EXCLUDED.consumer_key,
			consumer_secret = EXCLUDED.consumer_secret,
			access_token = EXCLUDED.access_token,
			access_secret = EXCLUDED.access_secret`

	_, err = s.db.ExecContext(ctx, query,
		row.AccountID,
		row.ConsumerKey,
		row.ConsumerSecret,
		row.AccessToken,
		row.AccessSecret,
	)
	return err
}

func (s *CredentialStore) Delete(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM account_credentials WHERE account_id = $1",
		accountID,
	)
	return err
}

func (s *CredentialStore) encrypt(creds *domain.Credentials) (*credentialRow, error) {
	row := credentialRow{AccountID: creds.AccountID}

	fields := []struct {
		name  string
		plain string
		out   *string
	}{
		{"consumer_key", creds.ConsumerKey, &row.ConsumerKey},
		{"consumer_secret", creds.ConsumerSecret, &row.ConsumerSecret},
		{"access_token", creds.AccessToken, &row.AccessToken},
		{"access_secret", creds.AccessSecret, &row.AccessSecret},
	}
	for _, f := range fields {
		sealed, err := s.cipher.EncryptString(f.plain)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", f.name, err)
		}
		*f.out = sealed
	}

	return &row, nil
}

func (s *CredentialStore) decrypt(row credentialRow) (*domain.Credentials, error) {
	creds := domain.Credentials{AccountID: row.AccountID}

	fields := []struct {
		name   string
		sealed string
		out    *string
	}{
		{"consumer_key", row.ConsumerKey, &creds.ConsumerKey},
		{"consumer_secret", row.ConsumerSecret, &creds.ConsumerSecret},
		{"access_token", row.AccessToken, &creds.AccessToken},
		{"access_secret", row.AccessSecret, &creds.AccessSecret},
	}
	for _, f := range fields {
		plain, err := s.cipher.DecryptString(f.sealed)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", f.name, err)
		}
		*f.out = plain
	}

	return &creds, nil
}
