package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"google.golang.org/api/idtoken"
)

type idTokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushVerifier guards the Pub/Sub push endpoints. A delivery is accepted when
// it carries either an admin token, so operators can replay events, or a
// Google-signed OIDC token for the configured audience.
type PushVerifier struct {
	admin          *Authenticator
	audience       string
	serviceAccount string
	validate       idTokenValidator
}

// NewPushVerifier accepts admin tokens only while audience is empty. When
// serviceAccount is set, OIDC tokens must name it as their verified email.
func NewPushVerifier(admin *Authenticator, audience, serviceAccount string) *PushVerifier {
	return &PushVerifier{
		admin:          admin,
		audience:       audience,
		serviceAccount: serviceAccount,
		validate:       idtoken.Validate,
	}
}

// Verify returns the subject of the accepted token.
func (p *PushVerifier) Verify(r *http.Request) (string, error) {
	token, err := bearer(r)
	if err != nil {
		return "", err
	}
	if claims, err := p.admin.Verify(token); err == nil && claims.Role == RoleAdmin {
		return claims.Subject, nil
	}
	if p.audience == "" {
		return "", fmt.Errorf("%w: push token is not an admin token", ErrInvalidToken)
	}

	payload, err := p.validate(r.Context(), token, p.audience)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if p.serviceAccount != "" {
		email, _ := payload.Claims["email"].(string)
		verified, _ := payload.Claims["email_verified"].(bool)
		if email != p.serviceAccount || !verified {
			return "", fmt.Errorf("%w: unexpected push identity %q", ErrInvalidToken, email)
		}
	}
	return payload.Subject, nil
}

// RequirePush answers 401 to deliveries Verify rejects.
func (p *PushVerifier) RequirePush(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := p.Verify(r)
		if err != nil {
			log.Warn("Rejected push delivery", "path", r.URL.Path, "error", err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Debug("Accepted push delivery", "path", r.URL.Path, "subject", subject)
		next.ServeHTTP(w, r)
	})
}
