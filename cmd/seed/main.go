// seed inserts development sample data for local testing: a small domain
// tree, a dev user assigned to the middle of it, a live session, and the
// bootstrap verification key. Idempotent: every insert is an upsert.
//
// When JWT_PRIVATE_KEY is set, a signed dev credential for the seeded session
// is printed so it can be pasted straight into a cookie or bearer header.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	bootstrapkeyrepo "session-authz/internal/bootstrapkey/repository"
	"session-authz/internal/config"
	"session-authz/internal/db"
	hierarchydomain "session-authz/internal/hierarchy/domain"
	hierarchyrepo "session-authz/internal/hierarchy/repository"
	"session-authz/internal/security"
	sessiondomain "session-authz/internal/session/domain"
	sessionrepo "session-authz/internal/session/repository"
	userdomain "session-authz/internal/user/domain"
	userrepo "session-authz/internal/user/repository"
)

const (
	devUserID   = int64(42)
	devUserName = "dev-user"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	// Domain chain: 1 (root) -> 2 -> 3, all active.
	domains := hierarchyrepo.NewPostgresRepository(conn)
	var parent *int64
	for id := int64(1); id <= 3; id++ {
		node := hierarchydomain.Node{ID: id, ParentID: parent, Status: hierarchydomain.StatusActive}
		if err := domains.Create(ctx, &node); err != nil {
			log.Fatalf("create domain %d: %v", id, err)
		}
		p := id
		parent = &p
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := userrepo.NewPostgresRepository(conn)
	if err := users.Create(ctx, &userdomain.User{
		ID:           devUserID,
		Name:         devUserName,
		PasswordHash: string(passwordHash),
	}); err != nil {
		log.Fatalf("create dev user: %v", err)
	}
	if err := users.AssignDomain(ctx, devUserID, 2); err != nil {
		log.Fatalf("assign domain: %v", err)
	}

	// Bootstrap verification key, derived from the configured private key when
	// available, else the configured public key.
	if keyPEM := publicKeyPEM(cfg); keyPEM != "" {
		keys := bootstrapkeyrepo.NewPostgresRepository(conn)
		if err := keys.Put(ctx, base64.StdEncoding.EncodeToString([]byte(keyPEM))); err != nil {
			log.Fatalf("store bootstrap key: %v", err)
		}
	}

	// A live session, plus a signed credential for it when we can sign.
	sessions := sessionrepo.NewPostgresRepository(conn)
	if cfg.JWTPrivateKey != "" {
		priv, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			log.Fatalf("parse JWT_PRIVATE_KEY: %v", err)
		}
		token, sessionID, err := security.NewSigner(priv, 0).Issue(devUserID)
		if err != nil {
			log.Fatalf("sign dev credential: %v", err)
		}
		if err := sessions.Create(ctx, &sessiondomain.Session{
			UserID:   devUserID,
			TokenID:  sessionID,
			LastSeen: time.Now().UTC(),
		}); err != nil {
			log.Fatalf("create session: %v", err)
		}
		fmt.Printf("dev credential (user %d, session %s):\n%s\n", devUserID, sessionID, token)
	} else {
		log.Println("JWT_PRIVATE_KEY not set; skipping dev credential")
	}

	log.Println("seed applied")
}

// publicKeyPEM resolves the verification key PEM for the bootstrap record.
func publicKeyPEM(cfg *config.Config) string {
	if cfg.JWTPrivateKey != "" {
		priv, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err == nil {
			pem, err := security.EncodePublicKeyPEM(&priv.PublicKey)
			if err == nil {
				return pem
			}
		}
	}
	if cfg.JWTPublicKey != "" {
		if raw, err := security.LoadPEM(cfg.JWTPublicKey); err == nil {
			return string(raw)
		}
	}
	return ""
}
