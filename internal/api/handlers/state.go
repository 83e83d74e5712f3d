package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rohits-web03/innerself/internal/utils"
)

var errStateFormat = errors.New("invalid state format")

// GenerateState builds an OAuth state of the form "<nonce>.<payload>", where
// payload is base64url JSON carrying data (the sign-in flow).
func GenerateState(data map[string]string) (string, error) {
	nonce, err := utils.NewNonce()
	if err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal state data: %w", err)
	}
	return nonce + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeState returns the data embedded by GenerateState. It does not
// authenticate the state; callers compare it with the copy in the cookie.
func DecodeState(state string) (map[string]string, error) {
	nonce, payload, ok := strings.Cut(state, ".")
	if !ok || nonce == "" || strings.Contains(payload, ".") {
		return nil, errStateFormat
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return data, nil
}
