package http

import (
	"github.com/fileshare-api/internal/application/transfer"
	"github.com/fileshare-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/fileshare-api/internal/infrastructure/jwt"
	"github.com/fileshare-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router. Components get
// these injected at construction time; there are no package-level singletons.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	FileRepo    *dynamo.FileRepo
	Blobs       transfer.BlobStore
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
}
