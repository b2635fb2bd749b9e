package core

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TokenKind how the token is held
type TokenKind string

const (
	// TokenNative bank denom
	TokenNative TokenKind = "native"
	// TokenCw20 contract token
	TokenCw20 TokenKind = "cw20"
)

// Token asset identifier, either a native denom or a cw20 contract address
type Token struct {
	Denom string
	Kind  TokenKind
}

// Native native token
func Native(denom string) Token {
	return Token{Kind: TokenNative, Denom: denom}
}

// Cw20 cw20 token
func Cw20(addr string) Token {
	return Token{Kind: TokenCw20, Denom: addr}
}

func (t Token) IsZero() bool {
	return t.Denom == ""
}

// Key canonical string form, e.g. native:ucosm
func (t Token) Key() string {
	if t.IsZero() {
		return ""
	}

	return string(t.kind()) + ":" + t.Denom
}

func (t Token) String() string {
	return t.Key()
}

func (t Token) kind() TokenKind {
	if t.Kind == "" {
		return TokenNative
	}

	return t.Kind
}

// Equal compare kind and denom
func (t Token) Equal(o Token) bool {
	return t.Key() == o.Key()
}

// ParseToken parse the canonical key; a bare denom is a native token
func ParseToken(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, errors.New("empty token")
	}

	kind, denom, ok := strings.Cut(s, ":")
	if !ok {
		return Native(s), nil
	}

	if denom == "" {
		return Token{}, fmt.Errorf("invalid token %q", s)
	}

	switch TokenKind(strings.ToLower(kind)) {
	case TokenNative:
		return Native(denom), nil
	case TokenCw20:
		return Cw20(denom), nil
	default:
		return Token{}, fmt.Errorf("unknown token kind %q", kind)
	}
}

type tokenJSON struct {
	Native *string `json:"Native,omitempty"`
	Cw20   *string `json:"Cw20,omitempty"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	var v tokenJSON
	denom := t.Denom
	if t.kind() == TokenCw20 {
		v.Cw20 = &denom
	} else {
		v.Native = &denom
	}

	return json.Marshal(v)
}

func (t *Token) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = Token{}
		return nil
	}

	// plain string form
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		token, err := ParseToken(s)
		if err != nil {
			return err
		}

		*t = token
		return nil
	}

	var v tokenJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch {
	case v.Native != nil && v.Cw20 == nil && *v.Native != "":
		*t = Native(*v.Native)
	case v.Cw20 != nil && v.Native == nil && *v.Cw20 != "":
		*t = Cw20(*v.Cw20)
	default:
		return fmt.Errorf("invalid token %s", string(b))
	}

	return nil
}

// Value implements driver.Valuer
func (t Token) Value() (driver.Value, error) {
	return t.Key(), nil
}

// Scan implements sql.Scanner
func (t *Token) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = Token{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Token", src)
	}

	if s == "" {
		*t = Token{}
		return nil
	}

	token, err := ParseToken(s)
	if err != nil {
		return err
	}

	*t = token
	return nil
}
