package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

// Profile fields and free-text feedback are dropped outright. Learner and
// record ids are kept joinable across lines by a salted hash.
var (
	redactFragments = []string{
		"email", "full_name", "background", "education_level", "preferences",
		"feedback", "password", "secret", "token", "authorization", "cookie",
	}
	hashFragments = []string{"learner_id", "user_id", "enrollment_id"}
)

type redactPolicy struct {
	enabled bool
	salt    string
}

var (
	policyOnce sync.Once
	policy     redactPolicy
)

var envLookup = os.Getenv

// currentPolicy reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT once.
func currentPolicy() redactPolicy {
	policyOnce.Do(func() {
		policy.enabled = true
		switch strings.ToLower(strings.TrimSpace(envLookup("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			policy.enabled = false
		}
		policy.salt = strings.TrimSpace(envLookup("LOG_HASH_SALT"))
	})
	return policy
}

func scrub(kv []interface{}) []interface{} {
	p := currentPolicy()
	if len(kv) == 0 || !p.enabled {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		out = append(out, key, p.value(key, kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (p redactPolicy) value(key string, val interface{}) interface{} {
	k := strings.ToLower(strings.TrimSpace(key))
	switch {
	case k == "":
		return val
	case matches(k, redactFragments):
		return redacted
	case matches(k, hashFragments):
		return p.hash(val)
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for mk, mv := range v {
			out[mk] = p.value(mk, mv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = p.value("", item)
		}
		return out
	}
	return val
}

func matches(key string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

// hash returns "hash:" plus 12 hex chars, or "" for an empty value.
func (p redactPolicy) hash(val interface{}) string {
	var raw string
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		raw = fmt.Sprint(v)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(p.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}
