package access

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// Redirects holds the fixed targets the gate sends users to.
type Redirects struct {
	SignIn              string `yaml:"sign_in"`
	Onboarding          string `yaml:"onboarding"`
	Registration        string `yaml:"registration"`
	VerificationUpload  string `yaml:"verification_upload"`
	VerificationPending string `yaml:"verification_pending"`
}

// RouteTable is the single rule set the gate evaluates.
type RouteTable struct {
	Redirects    Redirects `yaml:"redirects"`
	Public       []string  `yaml:"public"`
	Protected    []string  `yaml:"protected"`
	VerifiedOnly []string  `yaml:"verified_only"`
}

// DefaultRoutes returns the embedded route table.
func DefaultRoutes() (*RouteTable, error) {
	return ParseRoutes(defaultRoutes)
}

// LoadRoutes reads a route table from file, or the embedded default when
// file is empty.
func LoadRoutes(file string) (*RouteTable, error) {
	if strings.TrimSpace(file) == "" {
		return DefaultRoutes()
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("access: read routes: %w", err)
	}
	return ParseRoutes(raw)
}

// ParseRoutes decodes and validates a YAML route table.
func ParseRoutes(raw []byte) (*RouteTable, error) {
	var rt RouteTable
	if err := yaml.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("access: parse routes: %w", err)
	}
	if err := rt.validate(); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (rt *RouteTable) validate() error {
	targets := map[string]string{
		"sign_in":              rt.Redirects.SignIn,
		"onboarding":           rt.Redirects.Onboarding,
		"registration":         rt.Redirects.Registration,
		"verification_upload":  rt.Redirects.VerificationUpload,
		"verification_pending": rt.Redirects.VerificationPending,
	}
	for name, target := range targets {
		if !strings.HasPrefix(target, "/") {
			return fmt.Errorf("access: redirect %s must be an absolute path, got %q", name, target)
		}
	}
	for _, group := range [][]string{rt.Public, rt.Protected, rt.VerifiedOnly} {
		for _, p := range group {
			if !strings.HasPrefix(p, "/") {
				return fmt.Errorf("access: pattern %q must start with /", p)
			}
		}
	}
	// The sign-in page must be reachable without a session or the gate loops.
	if !rt.IsPublic(rt.Redirects.SignIn) {
		return fmt.Errorf("access: sign-in path %q is not public", rt.Redirects.SignIn)
	}
	return nil
}

// IsPublic reports whether p is reachable regardless of authentication.
func (rt *RouteTable) IsPublic(p string) bool {
	p = cleanPath(p)
	return matchAny(rt.Public, p) && !matchAny(rt.Protected, p)
}

// IsVerifiedOnly reports whether p requires an approved companion profile.
func (rt *RouteTable) IsVerifiedOnly(p string) bool {
	return matchAny(rt.VerifiedOnly, cleanPath(p))
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, p string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return hasPathPrefix(p, prefix)
	}
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(p, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// hasPathPrefix matches whole segments so /onboardingx is not under /onboarding.
func hasPathPrefix(p, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
