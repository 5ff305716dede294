package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"/api/posts", "/api/posts", true},
		{"/api/posts", "/api/posts/1", false},
		{"/api/posts/*", "/api/posts/1", true},
		{"/api/posts/*", "/api/posts/1/comments", false}, // * stays in one segment
		{"/api/posts/*/comments", "/api/posts/1/comments", true},
		{"/api/posts/**", "/api/posts", true}, // ** matches zero segments
		{"/api/posts/**", "/api/posts/1/comments/2", true},
		{"/api/**", "/api/a/b/c", true},
		{"/api/**", "/other", false},
		{"/api/v1.0/x", "/api/v1.0/x", true},
		{"/api/v1.0/x", "/api/v1x0/x", false}, // dot is literal, not regex
		{"/API/posts", "/api/posts", false},   // case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			re, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.path))
		})
	}
}

func TestEvaluator_Tiers(t *testing.T) {
	e, err := NewEvaluator(Rules{
		Public:  []string{"/api/auth/**", "/health"},
		Free:    []string{"/api/posts/**"},
		Premium: []string{"/api/analytics/**"},
		Admin:   []string{"/api/admin/**"},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		role    string
		allowed bool
	}{
		{"public allows anonymous", "/api/auth/login", "", true},
		{"public allows anyone", "/health", "admin", true},
		{"free denies anonymous", "/api/posts", "", false},
		{"free allows user", "/api/posts/1", "user", true},
		{"free allows premium", "/api/posts", "premium", true},
		{"premium denies free user", "/api/analytics/summary", "user", false},
		{"premium allows premium", "/api/analytics/summary", "premium", true},
		{"premium allows admin", "/api/analytics/summary", "admin", true},
		{"admin denies premium", "/api/admin/users", "premium", false},
		{"admin allows admin", "/api/admin/users", "admin", true},
		{"unmatched path defaults to allow", "/metrics", "", true},
		{"unmatched path allows any role", "/totally/unknown", "user", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, e.IsAllowed(tt.path, tt.role))
		})
	}
}

func TestEffectiveRole(t *testing.T) {
	assert.Equal(t, "user", EffectiveRole("user", "free"))
	assert.Equal(t, "premium", EffectiveRole("user", "premium"))
	assert.Equal(t, "manager", EffectiveRole("manager", "enterprise"))
	assert.Equal(t, "admin", EffectiveRole("admin", "free"))
	// Literal tier override: a premium subscription wins over the base role.
	assert.Equal(t, "premium", EffectiveRole("admin", "premium"))
}

func TestDefaultRules_Compile(t *testing.T) {
	_, err := NewEvaluator(DefaultRules())
	assert.NoError(t, err)
}
