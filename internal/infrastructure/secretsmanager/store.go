package secretsmanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/kinboard-api/internal/config"
	"github.com/kinboard-api/internal/domain"
)

// maxNameLen is the Secrets Manager identifier limit we truncate derived
// names to. Callers keep keys short so distinct (user, category, key) triples
// never collide after truncation.
const maxNameLen = 127

// recoveryWindowDays is the soft-delete window; deleted secrets stay
// recoverable for this long before Secrets Manager purges them.
const recoveryWindowDays = 7

// Store translates (userID, category, key) triples into namespaced Secrets
// Manager identifiers and performs get/set/delete against the vault. It is
// the only component that touches plaintext secret values.
type Store struct {
	client *secretsmanager.Client
	prefix string
}

// NewClient creates a Secrets Manager client. When cfg.AWSEndpointURL is set
// (LocalStack), it overrides the endpoint so all traffic goes to the local instance.
func NewClient(cfg *config.Config) *secretsmanager.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for Secrets Manager: " + err.Error())
	}

	clientOpts := []func(*secretsmanager.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return secretsmanager.NewFromConfig(awsCfg, clientOpts...)
}

func NewStore(client *secretsmanager.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// storeErr wraps err as a store-unavailable failure. When the failure is an
// AWS API error, only its error code is surfaced; the full error chain can
// carry request detail that does not belong in responses or logs.
func storeErr(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s: %w", op, apiErr.ErrorCode(), domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}

// Save writes value under the derived name, attaching the obfuscated user id,
// category, key and creation time as tags plus any extra metadata. Existing
// secrets are overwritten; secrets scheduled for deletion are restored first.
func (s *Store) Save(ctx context.Context, userID, category, key, value string, extra map[string]string) error {
	name := s.DeriveName(userID, category, key)

	tags := []types.Tag{
		{Key: aws.String("uid"), Value: aws.String(ObfuscateUserID(userID))},
		{Key: aws.String("category"), Value: aws.String(category)},
		{Key: aws.String("key"), Value: aws.String(key)},
		{Key: aws.String("created_at"), Value: aws.String(time.Now().UTC().Format(time.RFC3339))},
	}
	for k, v := range extra {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}

	_, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
		Tags:         tags,
	})
	if err == nil {
		return nil
	}

	var exists *types.ResourceExistsException
	if errors.As(err, &exists) {
		return s.overwrite(ctx, name, value, tags)
	}

	var invalid *types.InvalidRequestException
	if errors.As(err, &invalid) {
		// Name is occupied by a secret scheduled for deletion; bring it back.
		if _, rerr := s.client.RestoreSecret(ctx, &secretsmanager.RestoreSecretInput{
			SecretId: aws.String(name),
		}); rerr != nil {
			return storeErr("restore secret "+name, rerr)
		}
		return s.overwrite(ctx, name, value, tags)
	}

	return storeErr("create secret "+name, err)
}

func (s *Store) overwrite(ctx context.Context, name, value string, tags []types.Tag) error {
	_, err := s.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return storeErr("put secret value "+name, err)
	}
	// Refresh tags so category/key/mask metadata track the latest value.
	if _, err := s.client.TagResource(ctx, &secretsmanager.TagResourceInput{
		SecretId: aws.String(name),
		Tags:     tags,
	}); err != nil {
		return storeErr("tag secret "+name, err)
	}
	return nil
}

// Get returns the plaintext value for (userID, category, key).
// A confirmed missing secret yields domain.ErrNotFound; any other failure
// yields domain.ErrStoreUnavailable so callers never mistake an outage for absence.
func (s *Store) Get(ctx context.Context, userID, category, key string) (string, error) {
	name := s.DeriveName(userID, category, key)

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return "", fmt.Errorf("secret %s: %w", name, domain.ErrNotFound)
		}
		return "", storeErr("get secret "+name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value: %w", name, domain.ErrNotFound)
	}
	return *out.SecretString, nil
}

// Delete soft-deletes the secret with a recovery window. Deleting an absent
// secret is not an error.
func (s *Store) Delete(ctx context.Context, userID, category, key string) error {
	name := s.DeriveName(userID, category, key)

	_, err := s.client.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:             aws.String(name),
		RecoveryWindowInDays: aws.Int64(recoveryWindowDays),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return nil
		}
		return storeErr("delete secret "+name, err)
	}
	return nil
}

// ListMasked enumerates the user's secrets by tag filter and returns masked
// entries only. Values are never fetched here.
func (s *Store) ListMasked(ctx context.Context, userID string) ([]domain.SecretEntry, error) {
	uid := ObfuscateUserID(userID)

	var entries []domain.SecretEntry
	var nextToken *string
	for {
		out, err := s.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
			Filters: []types.Filter{
				{Key: types.FilterNameStringTypeTagKey, Values: []string{"uid"}},
				{Key: types.FilterNameStringTypeTagValue, Values: []string{uid}},
			},
			MaxResults: aws.Int32(100),
			NextToken:  nextToken,
		})
		if err != nil {
			return nil, storeErr("list secrets", err)
		}

		for _, sl := range out.SecretList {
			tags := tagMap(sl.Tags)
			// Tag filters match any-tag; re-check ownership exactly.
			if tags["uid"] != uid {
				continue
			}
			// The PIN record is internal bookkeeping, not a listable secret.
			if tags["category"] == domain.CategorySystem {
				continue
			}
			entries = append(entries, domain.SecretEntry{
				Category:  tags["category"],
				Key:       tags["key"],
				Mask:      tags["mask"],
				CreatedAt: tags["created_at"],
			})
		}

		if out.NextToken == nil {
			return entries, nil
		}
		nextToken = out.NextToken
	}
}

// DeriveName builds the deterministic Secrets Manager identifier for a
// (userID, category, key) triple: prefix and parts joined with '-',
// lowercased, any character outside [a-z0-9-] replaced with '-', truncated
// to the store's identifier limit.
func (s *Store) DeriveName(userID, category, key string) string {
	raw := strings.ToLower(s.prefix + "-" + userID + "-" + category + "-" + key)
	b := []byte(raw)
	for i, c := range b {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			b[i] = '-'
		}
	}
	if len(b) > maxNameLen {
		b = b[:maxNameLen]
	}
	return string(b)
}

// ObfuscateUserID returns a short stable fingerprint of the user id for use
// in tags, so raw identifiers (emails) never appear in secret metadata.
func ObfuscateUserID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])[:16]
}

func tagMap(tags []types.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key != nil && t.Value != nil {
			m[*t.Key] = *t.Value
		}
	}
	return m
}
