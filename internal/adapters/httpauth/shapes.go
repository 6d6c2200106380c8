package httpauth

// Response-shape normalization for heterogeneous identity backends.
// Rather than optional-chaining through whatever JSON arrives, each known
// wrapper shape is declared as a pair of JMESPath expressions and the
// match outcome is tagged, so a misadapted backend shows up in logs and
// tests instead of being silently defaulted.

import (
	"errors"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// ShapeMatch tags how a backend response was interpreted.
type ShapeMatch string

const (
	// ShapeRecognized means a declared wrapper shape matched.
	ShapeRecognized ShapeMatch = "recognized"
	// ShapeDefaulted means no declared shape matched and the top-level
	// document itself was treated as the payload.
	ShapeDefaulted ShapeMatch = "defaulted"
)

// envelopeShape declares where a known backend wrapper keeps its payload.
type envelopeShape struct {
	name      string
	userExpr  string
	tokenExpr string
}

// Declared wrapper shapes, tried in order.
var envelopeShapes = []envelopeShape{
	{name: "flat", userExpr: "user", tokenExpr: "token"},
	{name: "data-wrapped", userExpr: "data.user", tokenExpr: "data.token"},
	{name: "result-wrapped", userExpr: "result.user", tokenExpr: "result.token"},
}

// MappedLogin is a normalized login response.
type MappedLogin struct {
	Identity domainauth.Identity
	Token    string
	// Match and Shape record how the document was interpreted.
	Match ShapeMatch
	Shape string
}

// MappedIdentity is a normalized verify/refresh response.
type MappedIdentity struct {
	Identity domainauth.Identity
	Token    string
	Match    ShapeMatch
	Shape    string
}

// mapLoginResponse normalizes a decoded login document.
func mapLoginResponse(doc any) (MappedLogin, error) {
	for _, shape := range envelopeShapes {
		userDoc, uerr := jmespath.Search(shape.userExpr, doc)
		tokenDoc, terr := jmespath.Search(shape.tokenExpr, doc)
		if uerr != nil || terr != nil || userDoc == nil || tokenDoc == nil {
			continue
		}
		token, ok := tokenDoc.(string)
		if !ok || token == "" {
			continue
		}
		identity, err := identityFromDoc(userDoc)
		if err != nil {
			continue
		}
		return MappedLogin{Identity: identity, Token: token, Match: ShapeRecognized, Shape: shape.name}, nil
	}

	// Fall back to reading the top-level document as the user itself.
	identity, err := identityFromDoc(doc)
	if err != nil {
		return MappedLogin{}, fmt.Errorf("unrecognized login response shape: %w", err)
	}
	token, _ := searchString("token", doc)
	if token == "" {
		return MappedLogin{}, errors.New("unrecognized login response shape: no token found")
	}
	return MappedLogin{Identity: identity, Token: token, Match: ShapeDefaulted, Shape: "top-level"}, nil
}

// mapIdentityResponse normalizes a decoded verify/refresh document.
// Token may be absent (verify) or present (refresh rotates it).
func mapIdentityResponse(doc any) (MappedIdentity, error) {
	for _, shape := range envelopeShapes {
		userDoc, err := jmespath.Search(shape.userExpr, doc)
		if err != nil || userDoc == nil {
			continue
		}
		identity, idErr := identityFromDoc(userDoc)
		if idErr != nil {
			continue
		}
		token, _ := searchString(shape.tokenExpr, doc)
		return MappedIdentity{Identity: identity, Token: token, Match: ShapeRecognized, Shape: shape.name}, nil
	}

	identity, err := identityFromDoc(doc)
	if err != nil {
		return MappedIdentity{}, fmt.Errorf("unrecognized identity response shape: %w", err)
	}
	token, _ := searchString("token", doc)
	return MappedIdentity{Identity: identity, Token: token, Match: ShapeDefaulted, Shape: "top-level"}, nil
}

// identityFromDoc maps one user document into a domain identity.
// ID and email are required; the rest is best-effort.
func identityFromDoc(doc any) (domainauth.Identity, error) {
	id, _ := searchString("id || _id || user_id", doc)
	email, _ := searchString("email", doc)
	if id == "" && email == "" {
		return domainauth.Identity{}, errors.New("user document missing id and email")
	}
	if id == "" {
		id = email
	}

	name, _ := searchString("name || full_name", doc)
	roles := searchStrings("roles || groups", doc)
	if len(roles) == 0 {
		if role, _ := searchString("role", doc); role != "" {
			roles = []string{role}
		}
	}

	return domainauth.Identity{UserID: id, Email: email, Name: name, Roles: roles}, nil
}

func searchString(expr string, doc any) (string, error) {
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", err
	}
	s, _ := out.(string)
	return s, nil
}

func searchStrings(expr string, doc any) []string {
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil
	}
	items, ok := out.([]any)
	if !ok {
		return nil
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return strs
}
