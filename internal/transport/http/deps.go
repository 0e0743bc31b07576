package http

import (
	"github.com/kinboard-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/kinboard-api/internal/infrastructure/jwt"
	"github.com/kinboard-api/internal/infrastructure/llm"
	"github.com/kinboard-api/internal/infrastructure/routing"
	s3infra "github.com/kinboard-api/internal/infrastructure/s3"
	"github.com/kinboard-api/internal/infrastructure/secretsmanager"
	"github.com/kinboard-api/internal/infrastructure/smtp"
	"github.com/kinboard-api/internal/infrastructure/sns"
	"github.com/kinboard-api/internal/infrastructure/weather"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	EventRepo   *dynamo.EventRepo
	LockoutRepo *dynamo.LockoutRepo
	SecretStore *secretsmanager.Store
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
	Weather     weather.Client
	Routing     routing.Client
	LLM         llm.Client
}
