package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutesParse(t *testing.T) {
	rt, err := DefaultRoutes()
	require.NoError(t, err)
	assert.Equal(t, "/sign-in", rt.Redirects.SignIn)
	assert.Equal(t, "/onboarding", rt.Redirects.Onboarding)
	assert.Equal(t, "/companions/register", rt.Redirects.Registration)
	assert.Equal(t, "/companions/verification", rt.Redirects.VerificationUpload)
	assert.Equal(t, "/companions/verification/pending", rt.Redirects.VerificationPending)
}

func TestIsPublic(t *testing.T) {
	rt, err := DefaultRoutes()
	require.NoError(t, err)

	cases := map[string]bool{
		"/":                                 true,
		"/location":                         true,
		"/location/madrid":                  true,
		"/companions":                       true,
		"/companions/":                      true,
		"/companions/ana-3f2a":              true,
		"/companions/ana-3f2a/reviews":      true,
		"/blog/how-it-works":                true,
		"/terms":                            true,
		"/api/webhooks/stripe":              true,
		"/sign-in/factor-one":               true,
		"/companions/register":              false,
		"/companions/register/step-2":       false,
		"/companions/verification":          false,
		"/companions/verification/pending":  false,
		"/companions/ana-3f2a/reviews/edit": false,
		"/onboarding":                       false,
		"/dashboard":                        false,
		"/billing":                          false,
		"/admin/verifications":              false,
		"/locationx":                        false,
	}
	for p, want := range cases {
		assert.Equal(t, want, rt.IsPublic(p), "IsPublic(%q)", p)
	}
}

func TestParseRoutesRejectsPrivateSignIn(t *testing.T) {
	_, err := ParseRoutes([]byte(`
redirects:
  sign_in: /sign-in
  onboarding: /onboarding
  registration: /companions/register
  verification_upload: /companions/verification
  verification_pending: /companions/verification/pending
public:
  - /
`))
	require.Error(t, err)
}

func TestParseRoutesRejectsRelativeTargets(t *testing.T) {
	_, err := ParseRoutes([]byte(`
redirects:
  sign_in: sign-in
public:
  - /**
`))
	require.Error(t, err)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/", "/", true},
		{"/", "/a", false},
		{"/a/**", "/a", true},
		{"/a/**", "/a/b/c", true},
		{"/a/**", "/ab", false},
		{"/a/*", "/a/b", true},
		{"/a/*", "/a/b/c", false},
		{"/a/*/c", "/a/b/c", true},
		{"/a/*/c", "/a/b/d", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, matchPattern(tc.pattern, tc.path), "%s vs %s", tc.pattern, tc.path)
	}
}
