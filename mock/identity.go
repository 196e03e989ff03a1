package mock

import (
	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

var _ beautrafil.IdentityGenerator = (*IdentityGenerator)(nil)

// IdentityGenerator is a mock implementation of beautrafil.IdentityGenerator.
type IdentityGenerator struct {
	ProfileFn   func() beautrafil.IdentityProfile
	UserAgentFn func() string
}

func (g *IdentityGenerator) Profile() beautrafil.IdentityProfile {
	return g.ProfileFn()
}

func (g *IdentityGenerator) UserAgent() string {
	return g.UserAgentFn()
}
