package agent

import "github.com/genesisforge/genesis/internal/llm"

// ClientFor resolves the model client serving one agent. The command wires
// this to the model router, or to a shared mock when no backend is wanted.
type ClientFor func(agentName string) llm.Client

// MockClients serves every agent from the same deterministic mock.
func MockClients() ClientFor {
	mock := &llm.MockClient{}
	return func(string) llm.Client { return mock }
}

// NewRoster builds the six builder agents in their fixed registration order.
// That order is the activation order of every dispatch cycle.
func NewRoster(clientFor ClientFor, logger Logger) *Registry {
	reg := NewRegistry()
	reg.Register(NewDreamWeaver(NewLLMResponder(clientFor("Dream Weaver"), dreamWeaverSystem), logger))
	reg.Register(NewMasterBuilder(NewLLMResponder(clientFor("Master Builder"), masterBuilderSystem), logger))
	reg.Register(NewAestheticArtist(NewLLMResponder(clientFor("Aesthetic Artist"), aestheticArtistSystem), logger))
	reg.Register(NewCodeSage(NewLLMResponder(clientFor("Code Sage"), codeSageSystem), logger))
	reg.Register(NewQualityGuardian(NewLLMResponder(clientFor("Quality Guardian"), qualityGuardianSystem), logger))
	reg.Register(NewDeploymentMaster(NewLLMResponder(clientFor("Deployment Master"), deploymentMasterSystem), logger))
	return reg
}
